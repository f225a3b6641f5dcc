// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package models defines the shared domain types for Statindo: users and
// identities, statistical categories, indicators and their data points,
// articles, FAQs, and the API request/response envelopes.
package models

import "time"

// Role is an account role. Roles are closed-world: anything outside this
// set carries no permissions.
type Role string

const (
	RoleSuperadmin     Role = "superadmin"
	RoleAdminDemografi Role = "admin_demografi"
	RoleAdminEkonomi   Role = "admin_ekonomi"
	RoleAdminLingkung  Role = "admin_lingkungan"
	RoleViewer         Role = "viewer"
)

// ValidRoles lists every assignable role.
var ValidRoles = []Role{
	RoleSuperadmin,
	RoleAdminDemografi,
	RoleAdminEkonomi,
	RoleAdminLingkung,
	RoleViewer,
}

// IsValid reports whether r is an assignable role.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// CredentialScheme identifies how a stored credential is verified.
type CredentialScheme string

const (
	// CredentialBcrypt is the standard scheme for all new credentials.
	CredentialBcrypt CredentialScheme = "bcrypt"

	// CredentialPlaintext marks rows imported from a legacy deployment
	// that stored passwords unhashed. Verification of this scheme is
	// config-gated and rewrites the row to bcrypt on first success.
	CredentialPlaintext CredentialScheme = "plaintext"
)

// User is a staff account row. PasswordHash and CredentialScheme never
// leave the server.
type User struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email"`
	Name             string           `json:"name"`
	Role             Role             `json:"role"`
	PasswordHash     string           `json:"-"`
	CredentialScheme CredentialScheme `json:"-"`
	IsActive         bool             `json:"is_active"`
	LastLoginAt      *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Identity is the authenticated caller attached to a request context.
// It is built from a fresh database read on every request, never from
// token claims alone.
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}
