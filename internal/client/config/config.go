package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings shared by the authgate CLI and web shell.
type Config struct {
	// APIBaseURL is the root of the identity API, e.g. http://localhost:8080/api.
	APIBaseURL string
	// RequestTimeout bounds every outbound API call.
	RequestTimeout time.Duration
	// SessionCheckInterval is how often an authenticated session is
	// revalidated in the background. Zero disables revalidation.
	SessionCheckInterval time.Duration
	// DatabasePath is the SQLite file holding the cookie jar and metadata.
	DatabasePath string
	// WebListenAddr is the address the web shell binds to.
	WebListenAddr string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.SessionCheckInterval = 30 * time.Second
	c.DatabasePath = "authgate.db"
	c.WebListenAddr = "127.0.0.1:3000"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the environment (including
// a .env file in the working directory), then the JSON file named by -c or
// -config, then the remaining flags. args is usually os.Args[1:].
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
