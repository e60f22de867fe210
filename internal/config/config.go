package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the server and CLI.
type Config struct {
	// ConfigPath is the path to the YAML configuration file.
	ConfigPath string `env:"LASQUERY_CONFIG" envDefault:"config.yaml"`
	// LogLevel sets the logger level.
	LogLevel string `env:"LASQUERY_LOG_LEVEL" envDefault:"info"`
	// LogFormat selects the log handler ("json" or "text").
	LogFormat string `env:"LASQUERY_LOG_FORMAT" envDefault:"json"`
	// ShutdownTimeout controls graceful shutdown duration.
	ShutdownTimeout time.Duration `env:"LASQUERY_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	// LAStoolsFolder overrides lastools.folder from the YAML config.
	LAStoolsFolder string `env:"LASTOOLS_FOLDER"`
	// WineFolder overrides lastools.wine_folder from the YAML config.
	WineFolder string `env:"WINE_FOLDER"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
