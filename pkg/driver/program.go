package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mlang/interpreter-go/pkg/ast"
)

// Format identifies how a program tree is serialized on disk.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Program is a loaded, validated tree ready for evaluation.
type Program struct {
	Path string
	Root ast.Node
}

// FormatForPath picks the serialization from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("program: unsupported file extension for %s (want .yml, .yaml or .json)", path)
	}
}

// LoadProgram reads and decodes the program tree at path.
func LoadProgram(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("program: empty path")
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("program: read %s: %w", path, err)
	}
	root, err := ParseProgram(data, format)
	if err != nil {
		return nil, fmt.Errorf("program: %s: %w", path, err)
	}
	return &Program{Path: path, Root: root}, nil
}

// ParseProgram decodes a serialized tree in the given format.
func ParseProgram(data []byte, format Format) (ast.Node, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse json: empty document")
			}
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty document")
	}
	return DecodeNode(raw)
}
