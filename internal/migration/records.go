package migration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a file holding raw records
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the record format from a file extension
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// DecodeJSON decodes data into v keeping numbers as json.Number, so numeric
// looking values reach the loader with their digits intact.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

// DecodeRecords decodes a single record or a list of records. Blank input
// decodes to no records. YAML scalars are kept as their literal text.
func DecodeRecords(data []byte, format Format) ([]map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc any
	switch format {
	case FormatJSON:
		if err := DecodeJSON(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON records: %w", err)
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to decode YAML records: %w", err)
		}
		doc = nodeValue(&node)
	default:
		return nil, fmt.Errorf("unsupported record format: %q", format)
	}

	switch t := doc.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{t}, nil
	case []any:
		records := make([]map[string]any, 0, len(t))
		for i, item := range t {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
			records = append(records, rec)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("expected an object or a list of objects, got %T", doc)
	}
}

// nodeValue converts a YAML node into maps, slices and strings. Scalars keep
// their literal text: 0400 stays "0400" instead of resolving to octal.
func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			items = append(items, nodeValue(c))
		}
		return items
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		mergeNode(m, n)
		return m
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil
		}
		return n.Value
	default:
		return nil
	}
}

// mergeNode copies the pairs of mapping n into m. Explicit keys win over
// those pulled in with <<.
func mergeNode(m map[string]any, n *yaml.Node) {
	var merged []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.ShortTag() == "!!merge" {
			merged = append(merged, value)
			continue
		}
		m[key.Value] = nodeValue(value)
	}

	for _, value := range merged {
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		sources := []*yaml.Node{value}
		if value.Kind == yaml.SequenceNode {
			sources = value.Content
		}
		for _, src := range sources {
			if src.Kind == yaml.AliasNode {
				src = src.Alias
			}
			if src.Kind != yaml.MappingNode {
				continue
			}
			inner := make(map[string]any)
			mergeNode(inner, src)
			for k, v := range inner {
				if _, ok := m[k]; !ok {
					m[k] = v
				}
			}
		}
	}
}
