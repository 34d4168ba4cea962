// Package config loads runtime configuration for the NDIS directory CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string   storage driver: sqlite or pgx
//	-d string   storage DSN (sqlite file path or postgres URL)
//	-a string   base URL of the remote directory API; empty means local only
//	-t int      remote request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-p string   password scheme for new accounts: legacy or argon2id
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "directory.db",
//	  "remote_base_url": "https://directory.example.org",
//	  "remote_timeout": "5s",
//	  "online_check_interval": "10s",
//	  "password_scheme": "legacy",
//	  "service_codec": "obfuscated",
//	  "session_ttl": "24h",
//	  "favorites_per_user": false,
//	  "seed_sample_data": true,
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Keys missing from the file keep their earlier values.
package config
