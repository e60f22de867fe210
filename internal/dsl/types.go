package dsl

import "github.com/codex-k8s/lasquery-mcp-server/internal/lastools"

// Config is the top-level YAML configuration.
type Config struct {
	// Server describes the MCP server settings.
	Server ServerConfig `yaml:"server"`
	// LAStools locates the LAStools installation.
	LAStools LAStoolsConfig `yaml:"lastools"`
	// Project provides the layer registry.
	Project ProjectConfig `yaml:"project"`
	// Query configures the lasquery tool.
	Query QueryConfig `yaml:"query"`
}

// ServerConfig defines MCP server settings.
type ServerConfig struct {
	// Name is the MCP server name.
	Name string `yaml:"name"`
	// Version is the MCP server version.
	Version string `yaml:"version"`
	// Transport selects the server transport ("http" or "stdio").
	Transport string `yaml:"transport"`
	// ShutdownTimeout overrides graceful shutdown duration.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// StartupHooks defines one-time commands executed on start.
	StartupHooks []HookConfig `yaml:"startup_hooks"`
	// HTTP configures HTTP transport.
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Path is the MCP HTTP endpoint path.
	Path string `yaml:"path"`
	// MetricsPath serves Prometheus metrics; empty disables it.
	MetricsPath string `yaml:"metrics_path"`
	// ReadTimeout limits request read time.
	ReadTimeout string `yaml:"read_timeout"`
	// WriteTimeout limits response write time.
	WriteTimeout string `yaml:"write_timeout"`
	// IdleTimeout controls idle connections.
	IdleTimeout string `yaml:"idle_timeout"`
	// Stateless disables session tracking.
	Stateless bool `yaml:"stateless"`
}

// HookConfig defines a startup hook command.
type HookConfig struct {
	// Command is the startup command to run.
	Command string `yaml:"command"`
	// Args are optional arguments.
	Args []string `yaml:"args"`
	// Env adds environment variables for the hook.
	Env map[string]string `yaml:"env"`
	// Timeout controls hook execution duration.
	Timeout string `yaml:"timeout"`
}

// LAStoolsConfig locates LAStools and controls how it is launched.
type LAStoolsConfig struct {
	// Folder is the LAStools installation root.
	Folder string `yaml:"folder"`
	// WineFolder holds the wine binary used to run Windows builds.
	WineFolder string `yaml:"wine_folder"`
	// VectorExt is the expected extension of flightline vector sources.
	VectorExt string `yaml:"vector_ext"`
	// WorkDir is the working directory of spawned processes.
	WorkDir string `yaml:"work_dir"`
	// Env adds environment variables for spawned processes.
	Env map[string]string `yaml:"env"`
}

// ProjectConfig provides the layer registry, from a file or inline.
type ProjectConfig struct {
	// File is a YAML project file listing layers.
	File string `yaml:"file"`
	// Layers are inline layers used when File is empty.
	Layers []lastools.Layer `yaml:"layers"`
}

// QueryConfig configures the lasquery tool.
type QueryConfig struct {
	// Title is the human-friendly tool title.
	Title string `yaml:"title"`
	// Description explains the tool for the agent.
	Description string `yaml:"description"`
	// Timeout bounds a single run.
	Timeout string `yaml:"timeout"`
	// TimeoutMessage is returned on timeout.
	TimeoutMessage string `yaml:"timeout_message"`
	// Defaults are applied when a call omits an option.
	Defaults lastools.Options `yaml:"defaults"`
	// Limits throttles runs.
	Limits LimitsConfig `yaml:"limits"`
}

// LimitsConfig throttles lasquery runs.
type LimitsConfig struct {
	// MaxTotal limits total runs for the server lifetime.
	MaxTotal int `yaml:"max_total"`
	// RatePerMinute limits runs per minute.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// Toolbox returns the LAStools locator described by the section.
func (c LAStoolsConfig) Toolbox() lastools.Toolbox {
	return lastools.Toolbox{Folder: c.Folder, WineFolder: c.WineFolder}
}
