// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package config loads and validates Statindo configuration.
//
// Configuration is layered with clear precedence:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
//
// The loaded Config is treated as immutable after startup. Secrets (the JWT
// signing secret, the seed admin password) are injected into their consumers
// at construction time and never read from mutable globals.
package config

import "time"

// Config is the root configuration for the Statindo server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Audit    AuditConfig    `koanf:"audit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production tightens
	// validation: a JWT secret is mandatory and legacy plaintext
	// credentials are rejected.
	Environment string `koanf:"environment"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. Empty string means in-memory.
	Path string `koanf:"path"`

	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB worker threads. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and rate-limiting settings.
type SecurityConfig struct {
	// JWTSecret signs HS256 access tokens. There is exactly one secret;
	// rotation requires a restart and invalidates outstanding tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// AllowLegacyPlaintext permits verifying passwords stored in plaintext
	// by a previous deployment. Migration aid only; rejected in production.
	AllowLegacyPlaintext bool `koanf:"allow_legacy_plaintext"`

	// SeedAdminEmail and SeedAdminPassword bootstrap the first superadmin
	// when the users table is empty.
	SeedAdminEmail    string `koanf:"seed_admin_email"`
	SeedAdminPassword string `koanf:"seed_admin_password"`

	// RateLimitReqs per RateLimitWindow, applied per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// LoginRateLimitReqs per LoginRateLimitWindow, applied per client IP
	// to the login endpoint only.
	LoginRateLimitReqs   int           `koanf:"login_rate_limit_reqs"`
	LoginRateLimitWindow time.Duration `koanf:"login_rate_limit_window"`

	// DenylistPath is the badger directory for revoked token IDs.
	// Empty string means in-memory.
	DenylistPath string `koanf:"denylist_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AuditConfig holds activity-log settings.
type AuditConfig struct {
	// BufferSize is the async activity logger's channel capacity.
	BufferSize int `koanf:"buffer_size"`

	// RetentionDays prunes activity rows older than this. 0 disables pruning.
	RetentionDays int `koanf:"retention_days"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path:      "/data/statindo.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			JWTSecret:            "",
			TokenTTL:             24 * time.Hour,
			AllowLegacyPlaintext: false,
			SeedAdminEmail:       "",
			SeedAdminPassword:    "",
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			LoginRateLimitReqs:   10,
			LoginRateLimitWindow: time.Minute,
			DenylistPath:         "/data/denylist",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Audit: AuditConfig{
			BufferSize:    1000,
			RetentionDays: 90,
		},
	}
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
