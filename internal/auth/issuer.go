// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/logging"
	"github.com/statindo/statindo/internal/models"
)

// UserStore is the slice of the database layer the auth package needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
	SetCredential(ctx context.Context, id int64, hash string, scheme models.CredentialScheme) error
}

// dummyBcryptHash is a real bcrypt digest of a random string, compared
// against when the email is unknown so both failure paths cost one bcrypt
// verification. Keeps unknown-email and wrong-password responses
// indistinguishable by timing.
var dummyBcryptHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("statindo-timing-pad"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// Issuer performs logins and issues tokens.
type Issuer struct {
	users          UserStore
	tokens         *TokenManager
	allowPlaintext bool
}

// NewIssuer creates a login service. allowPlaintext gates the legacy
// credential scheme; production configuration never sets it.
func NewIssuer(users UserStore, tokens *TokenManager, allowPlaintext bool) *Issuer {
	return &Issuer{users: users, tokens: tokens, allowPlaintext: allowPlaintext}
}

// Login verifies credentials and issues a token.
//
// Every failure path returns ErrInvalidCredentials: unknown email, inactive
// account, wrong password, and disabled legacy scheme are byte-identical to
// the client. The email lookup is case-insensitive.
func (i *Issuer) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := i.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Burn a bcrypt comparison so the miss costs as much as a hit.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyBcryptHash), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyBcryptHash), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := VerifyCredential(user.CredentialScheme, user.PasswordHash, password, i.allowPlaintext); err != nil {
		if errors.Is(err, ErrPlaintextDisabled) {
			logging.Warn().Str("email", user.Email).
				Msg("Login blocked: legacy plaintext credential with compatibility mode off")
		}
		return nil, ErrInvalidCredentials
	}

	// A verified plaintext row is upgraded to bcrypt in place. Failure to
	// upgrade is logged, not fatal; the login already succeeded.
	if user.CredentialScheme == models.CredentialPlaintext {
		if hash, err := HashPassword(password); err == nil {
			if err := i.users.SetCredential(ctx, user.ID, hash, models.CredentialBcrypt); err != nil {
				logging.Err(err).Int64("user_id", user.ID).Msg("Failed to upgrade legacy credential")
			}
		}
	}

	token, expiresAt, err := i.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	if err := i.users.TouchLastLogin(ctx, user.ID); err != nil {
		logging.Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: models.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
		},
	}, nil
}

// ChangePassword re-verifies the current password and stores a bcrypt hash
// of the new one.
func (i *Issuer) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := i.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := VerifyCredential(user.CredentialScheme, user.PasswordHash, current, i.allowPlaintext); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return i.users.SetCredential(ctx, user.ID, hash, models.CredentialBcrypt)
}
