package mapping

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed repositories.yaml
var defaultTable []byte

// Format identifies a mapping file encoding.
type Format string

const (
	// FormatYAML is the default mapping encoding.
	FormatYAML Format = "yaml"
	// FormatTOML uses [[repositories]] and [[repositories.paths]] tables.
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported mapping file extension %q", filepath.Ext(path))
	}
}

// Default returns the embedded FalkorDB docs mapping.
func Default() (*Table, error) {
	return Parse(defaultTable, FormatYAML)
}

// LoadFile reads and validates a mapping file.
func LoadFile(path string) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	table, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse decodes and validates a mapping document.
func Parse(data []byte, format Format) (*Table, error) {
	table := &Table{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(table); err != nil {
			return nil, fmt.Errorf("failed to parse YAML mapping: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), table)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML mapping: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown TOML mapping key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported mapping format %q", format)
	}

	if table.Organization == "" {
		table.Organization = DefaultOrganization
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
