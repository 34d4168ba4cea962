package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "sqlite", c.StorageDriver)
	assert.Equal(t, "directory.db", c.StorageDSN)
	assert.Empty(t, c.RemoteBaseURL)
	assert.Equal(t, 5*time.Second, c.RemoteTimeout)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "legacy", c.PasswordScheme)
	assert.Equal(t, CodecObfuscated, c.ServiceCodec)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.False(t, c.FavoritesPerUser)
	assert.True(t, c.SeedSampleData)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "postgres", mutate: func(c *Config) { c.StorageDriver = "pgx"; c.StorageDSN = "postgres://u@h/db" }, ok: true},
		{name: "argon2id", mutate: func(c *Config) { c.PasswordScheme = "argon2id" }, ok: true},
		{name: "sealed codec", mutate: func(c *Config) { c.ServiceCodec = CodecSealed }, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "mysql" }},
		{name: "empty dsn", mutate: func(c *Config) { c.StorageDSN = "" }},
		{name: "unknown scheme", mutate: func(c *Config) { c.PasswordScheme = "md5" }},
		{name: "unknown codec", mutate: func(c *Config) { c.ServiceCodec = "rot13" }},
		{name: "remote without timeout", mutate: func(c *Config) { c.RemoteBaseURL = "http://x"; c.RemoteTimeout = 0 }},
		{name: "zero check interval", mutate: func(c *Config) { c.OnlineCheckInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)

			err := c.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
