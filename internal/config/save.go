package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Output keys accepted by SetOutputValue.
const (
	KeyFormat   = "format"
	KeyColor    = "color"
	KeyMaxWidth = "max_width"
)

// SetOutputValue sets one key of the output section in the config file.
// Only that scalar is touched: other keys keep the values written in the
// file (not environment overrides), and comments are preserved.
func SetOutputValue(configPath, key, value string) error {
	tag := "!!str"
	switch key {
	case KeyFormat, KeyColor:
	case KeyMaxWidth:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("output.max_width: expected a number, got %q", value)
		}
		tag = "!!int"
	default:
		return fmt.Errorf("unknown key %q", "output."+key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root must be a mapping")
	}

	output := lookupKey(doc.Content[0], "output")
	if output == nil {
		output = &yaml.Node{Kind: yaml.MappingNode}
		setKey(doc.Content[0], "output", output)
	}
	if output.Kind != yaml.MappingNode {
		return fmt.Errorf("output must be a mapping")
	}

	scalar := lookupKey(output, key)
	if scalar == nil {
		scalar = &yaml.Node{Kind: yaml.ScalarNode}
		setKey(output, key, scalar)
	}
	if scalar.Kind != yaml.ScalarNode {
		return fmt.Errorf("output.%s must be a scalar", key)
	}
	scalar.Value = value
	scalar.Tag = tag
	scalar.Style = 0

	out := Defaults().Output
	if err := output.Decode(&out); err != nil {
		return fmt.Errorf("decoding output: %w", err)
	}
	if err := ValidateOutput(out); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// lookupKey returns the value node for key in a mapping node, or nil.
func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// setKey appends key with value to a mapping node.
func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".lexarg.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
