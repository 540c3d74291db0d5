package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONLines writes one JSON object per token.
func JSONLines(w io.Writer, tokens []Token) error {
	enc := json.NewEncoder(w)
	for i, rec := range Records(tokens) {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding token %d: %w", i, err)
		}
	}
	return nil
}

// YAML writes the tokens as a YAML sequence.
func YAML(w io.Writer, tokens []Token) error {
	return EncodeYAML(w, Records(tokens))
}

// EncodeYAML writes v as a YAML document with two-space indentation.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes v as indented JSON.
func EncodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
