// Package configs embeds sample lasquery server configs, selectable with the
// server's -embedded-config flag.
package configs

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// Default is the HTTP sample config.
const Default = "lasquery.yaml"

//go:embed *.yaml
var embeddedConfigs embed.FS

// Names lists the embedded config filenames in sorted order.
func Names() []string {
	entries, err := fs.ReadDir(embeddedConfigs, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names
}

// Load returns the embedded config by filename; an empty name selects Default.
func Load(name string) ([]byte, error) {
	if name == "" {
		name = Default
	}
	data, err := fs.ReadFile(embeddedConfigs, name)
	if err != nil {
		return nil, fmt.Errorf("embedded config %q not found (available: %s): %w", name, strings.Join(Names(), ", "), err)
	}
	return data, nil
}
