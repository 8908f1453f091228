package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/blogsync/internal/config"
)

func TestRender(t *testing.T) {
	out, err := render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(string(out), "# Blogsync configuration example") {
		t.Errorf("Expected header comment, got %q", strings.SplitN(string(out), "\n", 2)[0])
	}

	var cfg config.Config
	if err := yaml.Unmarshal(out, &cfg); err != nil {
		t.Fatalf("Generated YAML does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Generated config does not validate: %v", err)
	}
	if cfg.Server.Compression != "zstd" {
		t.Errorf("Expected compression zstd, got %q", cfg.Server.Compression)
	}
	if cfg.API.BaseURL != "http://localhost:4000/" {
		t.Errorf("Expected default base url, got %q", cfg.API.BaseURL)
	}
}
