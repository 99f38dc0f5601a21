package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// LogConfig configures the named loggers.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`                      // trace, debug, info, warn, error
	Format string `env:"LOG_FORMAT"`                     // json, text
	Output string `env:"LOG_OUTPUT" envDefault:"both"`   // file, stdout, both

	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"`

	BufferSize int `env:"LOG_BUFFER_SIZE" envDefault:"1000"`

	LogPath   string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile   string `env:"LOG_APP_FILE" envDefault:"app.log"`
	AuditFile string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile string `env:"LOG_ERROR_FILE" envDefault:"error.log"`
}

// DefaultConfig reads LOG_* variables. Level and format default per GO_ENV:
// debug/text in development, info/json elsewhere.
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		cfg = &LogConfig{Output: "both", MaxSize: 100, MaxBackups: 7, MaxAge: 7, Compress: true,
			BufferSize: 1000, LogPath: "./logs", AppFile: "app.log", AuditFile: "audit.log", ErrorFile: "error.log"}
	}

	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}
	if cfg.Level == "" {
		if goEnv == "development" {
			cfg.Level = "debug"
		} else {
			cfg.Level = "info"
		}
	}
	if cfg.Format == "" {
		if goEnv == "development" {
			cfg.Format = "text"
		} else {
			cfg.Format = "json"
		}
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Output = strings.ToLower(cfg.Output)
	return cfg
}
