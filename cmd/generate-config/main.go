// Command generate-config writes an example configuration with every default filled in.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/blogsync/internal/config"
)

const header = "# Blogsync configuration example\n# Copy this file to config.yaml and customize as needed\n\n"

// render returns the defaulted configuration as commented YAML.
// Defaults that fail validation are reported instead of written.
func render() ([]byte, error) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("defaults do not validate: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return append([]byte(header), data...), nil
}

func main() {
	target := "config.example.yaml"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	out, err := render()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating config: %v\n", err)
		os.Exit(1)
	}

	if target == "-" {
		os.Stdout.Write(out)
		return
	}
	if err := os.WriteFile(target, out, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", target)
}
