package logger

import (
	"os"
	"strconv"
	"strings"
)

// LogConfig holds the logging settings, read from LOG_* variables.
type LogConfig struct {
	// trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json, text
	Format string `env:"LOG_FORMAT" envDefault:"text"`
	// file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"both"`

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Comma separated module names; empty or "*" keeps every module.
	FilterModules string `env:"LOG_FILTER_MODULES" envDefault:"*"`
}

// DefaultConfig returns the defaults for GO_ENV with LOG_* overrides applied.
func DefaultConfig() *LogConfig {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	cfg := &LogConfig{
		Level:         "info",
		Format:        "json",
		Output:        "both",
		MaxSize:       100,
		MaxBackups:    7,
		MaxAge:        7,
		Compress:      true,
		LogPath:       "./logs",
		AppFile:       "app.log",
		AuditFile:     "audit.log",
		ErrorFile:     "error.log",
		FilterModules: "*",
	}
	if env == "development" {
		cfg.Level = "debug"
		cfg.Format = "text"
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = strings.ToLower(v)
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_SIZE")); err == nil && v > 0 {
		cfg.MaxSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_BACKUPS")); err == nil && v >= 0 {
		cfg.MaxBackups = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_AGE")); err == nil && v > 0 {
		cfg.MaxAge = v
	}
	if v, err := strconv.ParseBool(os.Getenv("LOG_COMPRESS")); err == nil {
		cfg.Compress = v
	}
	if v := os.Getenv("LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("LOG_APP_FILE"); v != "" {
		cfg.AppFile = v
	}
	if v := os.Getenv("LOG_AUDIT_FILE"); v != "" {
		cfg.AuditFile = v
	}
	if v := os.Getenv("LOG_ERROR_FILE"); v != "" {
		cfg.ErrorFile = v
	}
	if v := os.Getenv("LOG_FILTER_MODULES"); v != "" {
		cfg.FilterModules = v
	}

	return cfg
}
