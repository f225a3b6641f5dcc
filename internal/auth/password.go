// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/statindo/statindo/internal/models"
)

// bcryptCost balances login latency against brute-force resistance.
const bcryptCost = 12

// HashPassword hashes a password for storage. All new credentials use
// bcrypt regardless of the legacy compatibility setting.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyCredential checks a password against a stored credential.
//
// The plaintext scheme exists only for rows imported from a legacy
// deployment and is refused unless allowPlaintext is set; the comparison
// is constant-time either way. Callers that verify a plaintext row
// successfully should rewrite it to bcrypt.
func VerifyCredential(scheme models.CredentialScheme, stored, password string, allowPlaintext bool) error {
	switch scheme {
	case models.CredentialBcrypt:
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil

	case models.CredentialPlaintext:
		if !allowPlaintext {
			return ErrPlaintextDisabled
		}
		if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
			return ErrInvalidCredentials
		}
		return nil

	default:
		return ErrInvalidCredentials
	}
}
