package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:  8288,
		JWTSecret:   "0123456789abcdef0123",
		JWTTTLHours: 24,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing server port",
			mutate:    func(c *Config) { c.ServerPort = 0 },
			wantError: true,
		},
		{
			name:      "missing jwt secret",
			mutate:    func(c *Config) { c.JWTSecret = "" },
			wantError: true,
		},
		{
			name:      "short jwt secret",
			mutate:    func(c *Config) { c.JWTSecret = "short" },
			wantError: true,
		},
		{
			name:      "non positive ttl",
			mutate:    func(c *Config) { c.JWTTTLHours = 0 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := validateConfig(cfg, log)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, cfg, GetConfig())
		})
	}
}

func TestConfig_CacheEnabled(t *testing.T) {
	cfg := Config{}
	assert.False(t, cfg.CacheEnabled())

	cfg.DatabaseCacheAddress = "localhost"
	assert.False(t, cfg.CacheEnabled())

	cfg.DatabaseCachePort = 6379
	assert.True(t, cfg.CacheEnabled())
}
