package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Register captures where and how the register snapshot is kept.
type Register struct {
	File        string
	Backend     string
	MetricsFile string
}

// Logging captures log output settings.
type Logging struct {
	Level  string
	Format string
}

// Config is the full runtime configuration.
type Config struct {
	Register Register
	Logging  Logging
}

const (
	defaultFile      = "people.json"
	defaultBackend   = "json"
	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// named) into the process environment. Variables already set win. Missing
// files are not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Register: Register{
			File:        envOr("REGISTER_FILE", defaultFile),
			Backend:     strings.ToLower(envOr("REGISTER_BACKEND", defaultBackend)),
			MetricsFile: os.Getenv("REGISTER_METRICS_FILE"),
		},
		Logging: Logging{
			Level:  strings.ToLower(envOr("LOG_LEVEL", defaultLogLevel)),
			Format: strings.ToLower(envOr("LOG_FORMAT", defaultLogFormat)),
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
