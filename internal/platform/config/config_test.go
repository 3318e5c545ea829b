// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/warden/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestLoad_Defaults verifies that optional settings fall back to their documented defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/warden")
	t.Setenv("TOKEN_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.HashCost)
	assert.Equal(t, "warden", cfg.TokenIssuer)
	assert.Equal(t, 10, cfg.LoginMaxFailures)
	assert.Equal(t, 15*time.Minute, cfg.LoginFailureWindow)
	assert.Equal(t, runtime.NumCPU(), cfg.HashPoolSize())
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_MissingSecret verifies that the signing secret has no default.
*/
func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/warden")
	t.Setenv("TOKEN_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
}

/*
TestValidate checks the cross-field rules.
*/
func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			TokenSecret:        testSecret,
			TokenTTL:           time.Hour,
			HashCost:           12,
			LoginMaxFailures:   5,
			LoginFailureWindow: time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"short_secret", func(c *config.Config) { c.TokenSecret = "short" }, "TOKEN_SECRET"},
		{"zero_ttl", func(c *config.Config) { c.TokenTTL = 0 }, "TOKEN_TTL"},
		{"cost_too_low", func(c *config.Config) { c.HashCost = 1 }, "HASH_COST"},
		{"cost_too_high", func(c *config.Config) { c.HashCost = 40 }, "HASH_COST"},
		{"negative_workers", func(c *config.Config) { c.HashWorkers = -1 }, "HASH_WORKERS"},
		{"zero_failures", func(c *config.Config) { c.LoginMaxFailures = 0 }, "LOGIN_MAX_FAILURES"},
		{"production_without_redis", func(c *config.Config) { c.Environment = "production" }, "REDIS_URL"},
		{"production_with_redis", func(c *config.Config) {
			c.Environment = "production"
			c.RedisURL = "redis://localhost:6379/0"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

/*
TestAllowedOrigins verifies parsing of the comma separated origin list.
*/
func TestAllowedOrigins(t *testing.T) {
	cfg := config.Config{ExtraOrigins: " https://a.example.com, ,https://b.example.com "}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins())

	cfg.HashWorkers = 3
	assert.Equal(t, 3, cfg.HashPoolSize())
	assert.False(t, strings.Contains(strings.Join(cfg.AllowedOrigins(), ""), " "))
}
