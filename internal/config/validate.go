// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package config

import "fmt"

// minJWTSecretLen is the minimum accepted secret length in bytes.
// HS256 keys shorter than the hash output weaken the MAC.
const minJWTSecretLen = 32

// Validate checks the configuration for consistency. Production mode
// enforces the security-sensitive settings; development mode is permissive
// where a safe fallback exists.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required (set STATINDO_SECURITY_JWT_SECRET)")
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("security.jwt_secret must be at least %d bytes in production", minJWTSecretLen)
	}

	// The plaintext compatibility mode exists only to migrate legacy rows.
	// Running it in production would keep unhashed passwords verifiable.
	if c.IsProduction() && c.Security.AllowLegacyPlaintext {
		return fmt.Errorf("security.allow_legacy_plaintext must be false in production")
	}

	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive, got %s", c.Security.TokenTTL)
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.LoginRateLimitReqs <= 0 {
		return fmt.Errorf("security.login_rate_limit_reqs must be positive, got %d", c.Security.LoginRateLimitReqs)
	}

	if c.Security.SeedAdminEmail != "" && c.Security.SeedAdminPassword == "" {
		return fmt.Errorf("security.seed_admin_password is required when seed_admin_email is set")
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
