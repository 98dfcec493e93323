package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags overlays cfg with the short flags it owns:
//
//	-a string   identity API base URL
//	-t int      request timeout (seconds)
//	-i int      session check interval (seconds, 0 disables)
//	-d string   SQLite database path
//	-l string   web shell listen address
//	-v string   log level
//
// Other arguments in args are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-i", "-d", "-l", "-v"})

	fs := flag.NewFlagSet("authgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "identity API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.SessionCheckInterval.Seconds()), "session check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "database path")
	fs.StringVar(&cfg.WebListenAddr, "l", cfg.WebListenAddr, "web listen address")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.SessionCheckInterval = time.Duration(*interval) * time.Second
		}
	})
	return nil
}
