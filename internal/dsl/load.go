package dsl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override adjusts a parsed Config before validation.
type Override func(cfg *Config)

// WithLAStools overrides the LAStools and wine folders when the values are non-empty.
func WithLAStools(folder, wineFolder string) Override {
	return func(cfg *Config) {
		if strings.TrimSpace(folder) != "" {
			cfg.LAStools.Folder = folder
		}
		if strings.TrimSpace(wineFolder) != "" {
			cfg.LAStools.WineFolder = wineFolder
		}
	}
}

// Load parses YAML bytes into Config, applies overrides and validates it.
func Load(data []byte, overrides ...Override) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	for _, override := range overrides {
		if override != nil {
			override(&cfg)
		}
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
