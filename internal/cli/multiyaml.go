package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseMultiYAML reads a file holding one or more YAML documents, expands
// {{ .ENV.VAR }} placeholders and decodes every non-empty document into T.
// Unknown keys are rejected.
func ParseMultiYAML[T any](filename string) ([]T, error) {
	data, err := loadTemplated(filename, replaceTabsWithSpaces)
	if err != nil {
		return nil, err
	}

	return ParseMultiYAMLFromBytes[T](data)
}

// ParseMultiYAMLFromBytes decodes every non-empty YAML document in data into T.
func ParseMultiYAMLFromBytes[T any](data []byte) ([]T, error) {
	// If data is empty or contains only whitespace or only --- separators, return empty slice
	content := strings.TrimSpace(string(data))
	if len(content) == 0 || strings.Trim(content, "- \n\t") == "" {
		return []T{}, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	result := []T{}

	for i := 1; ; i++ {
		var node yaml.Node
		if err := decoder.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode YAML document %d: %w", i, err)
		}
		// Skip empty documents (common with trailing ---)
		if isEmptyDocument(&node) {
			continue
		}
		var doc T
		if err := decodeStrict(&node, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML document %d: %w", i, err)
		}
		result = append(result, doc)
	}

	return result, nil
}

func isEmptyDocument(node *yaml.Node) bool {
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return true
		}
		node = node.Content[0]
	}
	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return len(node.Content) == 0
	case yaml.ScalarNode:
		return node.Tag == "!!null"
	}
	return false
}

// decodeStrict re-encodes node so the strict decoder can report unknown keys.
func decodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(v)
}

func replaceTabsWithSpaces(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\t"), []byte("  "))
}
