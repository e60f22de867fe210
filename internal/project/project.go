// Package project reads a layer registry from a YAML project file.
package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codex-k8s/lasquery-mcp-server/internal/lastools"
)

type document struct {
	Layers []lastools.Layer `yaml:"layers"`
}

// File is a layer registry stored on disk. The file is re-read on every call so
// edits made while the server runs are picked up.
type File struct {
	// Path is the YAML project file.
	Path string
}

// CurrentLayers reads the project file and returns its layers in file order.
// Relative sources are resolved against the project file's directory.
func (f File) CurrentLayers(ctx context.Context) ([]lastools.Layer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	layers, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", f.Path, err)
	}
	return Resolve(layers, filepath.Dir(f.Path)), nil
}

// Parse decodes a project document.
func Parse(data []byte) ([]lastools.Layer, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(doc.Layers); err != nil {
		return nil, err
	}
	return doc.Layers, nil
}

// Validate checks that every layer carries a name, a type and a source, and
// that names are unique.
func Validate(layers []lastools.Layer) error {
	names := map[string]struct{}{}
	for i, layer := range layers {
		if strings.TrimSpace(layer.Name) == "" {
			return fmt.Errorf("layers[%d].name is required", i)
		}
		if _, exists := names[layer.Name]; exists {
			return fmt.Errorf("duplicate layer name: %s", layer.Name)
		}
		names[layer.Name] = struct{}{}
		if strings.TrimSpace(layer.Type) == "" {
			return fmt.Errorf("layers[%d].type is required", i)
		}
		if strings.TrimSpace(layer.Source) == "" {
			return fmt.Errorf("layers[%d].source is required", i)
		}
	}
	return nil
}

// Resolve returns a copy of layers with relative file sources joined to dir.
// Sources that look like URIs are left alone.
func Resolve(layers []lastools.Layer, dir string) []lastools.Layer {
	out := make([]lastools.Layer, len(layers))
	for i, layer := range layers {
		if dir != "" && !filepath.IsAbs(layer.Source) && !strings.Contains(layer.Source, "://") {
			layer.Source = filepath.Join(dir, layer.Source)
		}
		out[i] = layer
	}
	return out
}
