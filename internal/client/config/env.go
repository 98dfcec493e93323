package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIBaseURL           = "AUTHGATE_API_BASE_URL"
	EnvRequestTimeout       = "AUTHGATE_REQUEST_TIMEOUT"
	EnvSessionCheckInterval = "AUTHGATE_SESSION_CHECK_INTERVAL"
	EnvDatabasePath         = "AUTHGATE_DATABASE_PATH"
	EnvWebListenAddr        = "AUTHGATE_WEB_LISTEN_ADDR"
	EnvLogLevel             = "AUTHGATE_LOG_LEVEL"
)

// dotEnvFiles are loaded before the environment is read. Variables already
// set in the process environment win over the files.
var dotEnvFiles = []string{".env"}

// parseEnv overlays cfg with AUTHGATE_* variables. Durations use
// time.ParseDuration syntax. A missing .env file is not an error.
func parseEnv(cfg *Config) error {
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	setString(&cfg.APIBaseURL, EnvAPIBaseURL)
	setString(&cfg.DatabasePath, EnvDatabasePath)
	setString(&cfg.WebListenAddr, EnvWebListenAddr)
	setString(&cfg.LogLevel, EnvLogLevel)

	if err := setDuration(&cfg.RequestTimeout, EnvRequestTimeout); err != nil {
		return err
	}
	return setDuration(&cfg.SessionCheckInterval, EnvSessionCheckInterval)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
