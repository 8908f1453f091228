package view

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// RenderJSON pretty prints v, syntax highlighted when color is set.
func RenderJSON(v any, color bool) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	if !color {
		return string(data), nil
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, string(data), "json", highlightFormatter, highlightStyle); err != nil {
		return "", fmt.Errorf("highlight json: %w", err)
	}
	return buf.String(), nil
}
