// Package markdown holds the front matter and heading helpers shared by the
// sync transformer and the sweep utilities.
package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter opens and closes a front matter block.
const Delimiter = "---"

// FrontMatter is an ordered string mapping. Keys render in insertion order.
type FrontMatter struct {
	keys   []string
	values map[string]string
}

// NewFrontMatter creates an empty front matter block.
func NewFrontMatter() *FrontMatter {
	return &FrontMatter{values: make(map[string]string)}
}

// Set assigns key. A new key is appended; an existing key keeps its position.
func (fm *FrontMatter) Set(key, value string) {
	if _, ok := fm.values[key]; !ok {
		fm.keys = append(fm.keys, key)
	}
	fm.values[key] = value
}

// Get returns the value for key.
func (fm *FrontMatter) Get(key string) (string, bool) {
	v, ok := fm.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (fm *FrontMatter) Keys() []string {
	return append([]string(nil), fm.keys...)
}

// Len returns the number of keys.
func (fm *FrontMatter) Len() int {
	return len(fm.keys)
}

// Render serializes the block including both delimiter lines and a trailing
// newline.
func (fm *FrontMatter) Render() (string, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range fm.keys {
		key := &yaml.Node{}
		key.SetString(k)
		val := &yaml.Node{}
		val.SetString(fm.values[k])
		node.Content = append(node.Content, key, val)
	}

	var body string
	if len(node.Content) > 0 {
		out, err := yaml.Marshal(node)
		if err != nil {
			return "", fmt.Errorf("failed to marshal front matter: %w", err)
		}
		body = string(out)
	}

	var sb strings.Builder
	sb.WriteString(Delimiter + "\n")
	sb.WriteString(body)
	sb.WriteString(Delimiter + "\n")
	return sb.String(), nil
}

// ParseFrontMatter decodes a YAML mapping, keeping key order. Non-scalar
// values are kept as their YAML text.
func ParseFrontMatter(raw string) (*FrontMatter, error) {
	fm := NewFrontMatter()
	if strings.TrimSpace(raw) == "" {
		return fm, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fm, nil
	}

	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter must be a mapping, got line %d", m.Line)
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind == yaml.ScalarNode {
			fm.Set(k.Value, v.Value)
			continue
		}
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode %q: %w", k.Value, err)
		}
		fm.Set(k.Value, strings.TrimSpace(string(out)))
	}
	return fm, nil
}
