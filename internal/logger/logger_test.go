package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)

	l.Info().Msg("hidden")
	c := Component(l, "store")
	c.Warn().Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "shown" {
		t.Errorf("Expected message 'shown', got %v", entry["message"])
	}
	if entry["component"] != "store" {
		t.Errorf("Expected component 'store', got %v", entry["component"])
	}
	for _, key := range []string{"pid", "go_version", "git_revision", "time", "caller"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("Expected field %q in %v", key, entry)
		}
	}
}

func TestNewWithWriterInvalidLevel(t *testing.T) {
	l := NewWithWriter("loud", &bytes.Buffer{})
	if l.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info fallback, got %s", l.GetLevel())
	}
}
