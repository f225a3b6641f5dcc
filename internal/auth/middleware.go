// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/statindo/statindo/internal/logging"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
)

type contextKey string

// identityKey stores the authenticated Identity in the request context.
const identityKey contextKey = "auth_identity"

// ContextWithIdentity attaches an Identity to the context.
func ContextWithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom extracts the authenticated Identity from the context.
func IdentityFrom(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	return identity, ok
}

// RequireAuth authenticates every request and attaches the Identity to the
// context. Failures end the request with 401; handlers behind this
// middleware can assume IdentityFrom succeeds.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _, err := a.Authenticate(r.Context(), r)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// writeAuthError maps pipeline errors onto the API envelope. Missing vs
// invalid tokens are distinguished; a nonexistent and a deactivated
// subject produce the same response, so probing a token reveals nothing
// about the account behind it.
func writeAuthError(w http.ResponseWriter, err error) {
	code := models.ErrCodeInvalidToken
	message := "Authentication token is invalid or expired"
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, ErrMissingToken):
		code = models.ErrCodeMissingToken
		message = "Authentication token is required"
		metrics.AuthFailures.WithLabelValues("missing_token").Inc()
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrUserInactive):
		// Same body for all three.
		metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
	default:
		logging.Err(err).Msg("Authentication pipeline failure")
		code = models.ErrCodeInternal
		message = "An internal error occurred"
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Error:    &models.APIError{Code: code, Message: message},
		Metadata: &models.Metadata{Timestamp: time.Now().UTC()},
	})
}
