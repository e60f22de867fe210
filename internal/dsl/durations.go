package dsl

import (
	"strings"
	"time"
)

// Defaults used when a duration is not configured.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// ReadTimeoutOrDefault returns the configured read timeout.
func (h HTTPConfig) ReadTimeoutOrDefault() time.Duration {
	return durationOr(h.ReadTimeout, DefaultReadTimeout)
}

// WriteTimeoutOrDefault returns the configured write timeout. Tool calls block
// until lasview exits, so long runs need a matching write timeout.
func (h HTTPConfig) WriteTimeoutOrDefault() time.Duration {
	return durationOr(h.WriteTimeout, DefaultWriteTimeout)
}

// IdleTimeoutOrDefault returns the configured idle timeout.
func (h HTTPConfig) IdleTimeoutOrDefault() time.Duration {
	return durationOr(h.IdleTimeout, DefaultIdleTimeout)
}

// ShutdownTimeoutOrDefault returns the configured graceful shutdown duration.
func (s ServerConfig) ShutdownTimeoutOrDefault() time.Duration {
	return durationOr(s.ShutdownTimeout, DefaultShutdownTimeout)
}

// RunTimeout returns the per-run timeout; zero means unbounded.
func (q QueryConfig) RunTimeout() time.Duration {
	return durationOr(q.Timeout, 0)
}

// HookTimeout returns the hook timeout; zero means unbounded.
func (h HookConfig) HookTimeout() time.Duration {
	return durationOr(h.Timeout, 0)
}

func durationOr(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
