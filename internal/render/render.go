package render

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
)

// MissingEnvError lists environment variables referenced with env but unset.
type MissingEnvError struct {
	// Names are the missing variables, sorted.
	Names []string
}

func (e *MissingEnvError) Error() string {
	return "missing env vars: " + strings.Join(e.Names, ", ")
}

type envTracker struct {
	missing map[string]struct{}
}

func (t *envTracker) lookup(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		if t.missing == nil {
			t.missing = map[string]struct{}{}
		}
		t.missing[key] = struct{}{}
	}
	return value
}

func (t *envTracker) err() error {
	if len(t.missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.missing))
	for key := range t.missing {
		names = append(names, key)
	}
	sort.Strings(names)
	return &MissingEnvError{Names: names}
}

func funcMap(tracker *envTracker) template.FuncMap {
	return template.FuncMap{
		"env": tracker.lookup,
		"envOr": func(key, def string) string {
			if value, ok := os.LookupEnv(key); ok {
				return value
			}
			return def
		},
		"default": func(def, value string) string {
			if value == "" {
				return def
			}
			return value
		},
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trimSuffix": strings.TrimSuffix,
		"replace":    strings.ReplaceAll,
	}
}

// RenderFile loads and renders a YAML template file.
func RenderFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return RenderBytes(path, raw)
}

// RenderBytes renders a YAML template. Every variable read with env must be set.
func RenderBytes(name string, raw []byte) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		name = "config"
	}
	tracker := &envTracker{}
	tmpl, err := template.New(name).Funcs(funcMap(tracker)).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	execErr := tmpl.Execute(&buf, map[string]any{})
	if err := tracker.err(); err != nil {
		return nil, err
	}
	if execErr != nil {
		return nil, fmt.Errorf("render template: %w", execErr)
	}
	return buf.Bytes(), nil
}
