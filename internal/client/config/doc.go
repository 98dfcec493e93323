// Package config loads runtime configuration for the authgate binaries.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Process environment and a .env file, AUTHGATE_* keys.
//  3. A JSON file selected with -c or -config.
//  4. Command-line flags.
//
// Flags
//
//	-a string   identity API base URL
//	-t int      request timeout (seconds)
//	-i int      session check interval (seconds)
//	-d string   SQLite database path
//	-l string   web shell listen address
//	-v string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "request_timeout": "10s",
//	  "session_check_interval": "30s",
//	  "database_path": "authgate.db",
//	  "web_listen_addr": "127.0.0.1:3000",
//	  "log_level": "info"
//	}
package config
