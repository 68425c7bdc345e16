package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a Graph as JSON to w.
func WriteGraph(g Graph, w io.Writer) error {
	return encodeJSON(w, g)
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	return g, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to indented JSON bytes. The output is
// deterministic and is used as the cache identity of a layout.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayout writes a Layout as JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	return encodeJSON(w, l)
}

// MarshalLayoutYAML serializes a Layout to YAML bytes.
func MarshalLayoutYAML(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayoutYAML(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteLayoutYAML writes a Layout as YAML to w.
func WriteLayoutYAML(l Layout, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// UnmarshalLayoutYAML deserializes YAML bytes into a Layout and validates it.
func UnmarshalLayoutYAML(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout yaml: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// FormatForPath returns FormatYAML for ".yaml" and ".yml" files and
// FormatJSON otherwise.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// WriteLayoutFile writes a Layout to path in the format implied by its
// extension.
func WriteLayoutFile(l Layout, path string) error {
	var (
		data []byte
		err  error
	)
	if FormatForPath(path) == FormatYAML {
		data, err = MarshalLayoutYAML(l)
	} else {
		data, err = MarshalLayout(l)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from path in the format implied by its
// extension.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	if FormatForPath(path) == FormatYAML {
		return UnmarshalLayoutYAML(data)
	}
	return UnmarshalLayout(data)
}

// =============================================================================
// Internal Helpers
// =============================================================================

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
