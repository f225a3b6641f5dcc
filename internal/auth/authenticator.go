// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/models"
)

// Authenticator turns a request into a verified Identity.
type Authenticator struct {
	users    UserStore
	tokens   *TokenManager
	denylist *Denylist
}

// NewAuthenticator creates a request authenticator.
func NewAuthenticator(users UserStore, tokens *TokenManager, denylist *Denylist) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, denylist: denylist}
}

// ExtractBearerToken pulls the compact token from the Authorization
// header. Returns ErrMissingToken when the header is absent or not a
// Bearer scheme.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Authenticate runs the full pipeline: Bearer extraction, token
// validation, denylist check, then a fresh user read with an is_active
// check. Claims are never trusted for role or account state; only the
// database row is.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*models.Identity, *Claims, error) {
	raw, err := ExtractBearerToken(r)
	if err != nil {
		return nil, nil, err
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	if a.denylist != nil && a.denylist.IsRevoked(claims.ID) {
		return nil, nil, ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	identity := &models.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}
	return identity, claims, nil
}

// Logout revokes the presented token for its remaining lifetime. A request
// without a valid token is not an error; there is nothing to revoke.
func (a *Authenticator) Logout(r *http.Request) {
	raw, err := ExtractBearerToken(r)
	if err != nil {
		return
	}
	claims, err := a.tokens.Validate(raw)
	if err != nil {
		return
	}
	if a.denylist != nil {
		_ = a.denylist.Revoke(claims.ID, a.tokens.RemainingLifetime(claims))
	}
}
