// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to the token service, the password hasher and the stores via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// MinTokenSecretLength is the minimum accepted length of TOKEN_SECRET in bytes.
// HS256 keys shorter than the digest size weaken the signature.
const MinTokenSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Warden API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the login throttle.
	RedisURL string `env:"REDIS_URL"`

	// Access token signing
	TokenSecret string        `env:"TOKEN_SECRET,required,unset"`
	TokenIssuer string        `env:"TOKEN_ISSUER" envDefault:"warden"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"    envDefault:"168h"`

	// Password hashing. HashWorkers = 0 sizes the pool to the available cores.
	HashCost    int `env:"HASH_COST"    envDefault:"12"`
	HashWorkers int `env:"HASH_WORKERS" envDefault:"0"`

	// Login throttling
	LoginMaxFailures   int           `env:"LOGIN_MAX_FAILURES"   envDefault:"10"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.TokenSecret) < MinTokenSecretLength {
		errs = append(errs, fmt.Errorf("TOKEN_SECRET must be at least %d bytes", MinTokenSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.HashCost < bcrypt.MinCost || c.HashCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("HASH_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.HashWorkers < 0 {
		errs = append(errs, errors.New("HASH_WORKERS must not be negative"))
	}
	if c.LoginMaxFailures <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_FAILURES must be positive"))
	}
	if c.LoginFailureWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_FAILURE_WINDOW must be positive"))
	}
	if c.IsProduction() && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required in production (login throttle)"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// HashPoolSize returns the number of concurrent password hash computations allowed.
func (c *Config) HashPoolSize() int {
	if c.HashWorkers > 0 {
		return c.HashWorkers
	}
	return runtime.NumCPU()
}

// AllowedOrigins returns the trimmed, non-empty entries of EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
