package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ndisdirectory/internal/auth"
	"github.com/dmitrijs2005/ndisdirectory/internal/dbx"
)

// Service codecs accepted in ServiceCodec.
const (
	CodecObfuscated = "obfuscated"
	CodecSealed     = "sealed"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the directory CLI.
type Config struct {
	StorageDriver string
	StorageDSN    string

	// RemoteBaseURL selects the remote repository strategy when non-empty.
	RemoteBaseURL       string
	RemoteTimeout       time.Duration
	OnlineCheckInterval time.Duration

	PasswordScheme   string
	ServiceCodec     string
	SessionTTL       time.Duration
	FavoritesPerUser bool
	SeedSampleData   bool

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDriver = string(dbx.DialectSQLite)
	c.StorageDSN = "directory.db"
	c.RemoteBaseURL = ""
	c.RemoteTimeout = 5 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.PasswordScheme = auth.SchemeLegacy
	c.ServiceCodec = CodecObfuscated
	c.SessionTTL = 24 * time.Hour
	c.FavoritesPerUser = false
	c.SeedSampleData = true
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects values the application cannot start with.
func (c *Config) Validate() error {
	if _, err := dbx.ParseDialect(c.StorageDriver); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.StorageDSN == "" {
		return fmt.Errorf("%w: empty storage DSN", ErrInvalidConfig)
	}
	if _, err := auth.NewHasher(c.PasswordScheme); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.ServiceCodec {
	case CodecObfuscated, CodecSealed:
	default:
		return fmt.Errorf("%w: unknown service codec %q", ErrInvalidConfig, c.ServiceCodec)
	}
	if c.RemoteBaseURL != "" && c.RemoteTimeout <= 0 {
		return fmt.Errorf("%w: remote timeout must be positive", ErrInvalidConfig)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
