package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables overriding file values.
const (
	EnvAPIURL     = "BLOG_API_URL"
	EnvLogLevel   = "BLOG_LOG_LEVEL"
	EnvServerDB   = "POSTSAPI_DB"
	EnvServerPort = "POSTSAPI_PORT"
	EnvMaxRetries = "BLOG_API_MAX_RETRIES"
)

// LoadEnv reads .env style files into the process environment. Missing files
// are not an error; variables already set win over file values.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			configLogger.Debug().Str("path", f).Msg("No env file loaded")
		}
	}
}

// ApplyEnv overrides cfg with any recognised environment variables and
// validates the result.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvServerDB); v != "" {
		cfg.Server.Database = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvMaxRetries, v)
		}
		cfg.API.MaxRetries = n
	}
	return cfg.Validate()
}
