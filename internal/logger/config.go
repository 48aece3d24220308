package logger

import (
	"log/slog"
	"strings"
)

// Config represents logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// DefaultConfig is used when nothing was configured
func DefaultConfig() Config {
	return Config{
		Level:       LevelInfo,
		Format:      FormatText,
		ServiceName: "coc-keeper",
		Version:     "dev",
		Environment: "dev",
	}
}

// LogLevel converts the configured level, falling back to info
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON reports whether records are written as JSON
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, FormatJSON)
}

// BaseAttributes are attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String("service", c.ServiceName),
		slog.String("version", c.Version),
		slog.String("environment", c.Environment),
	}
}

// Levels and formats
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)
