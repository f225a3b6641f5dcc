// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import "errors"

// Sentinel errors for the authentication pipeline. Handlers map these to
// HTTP statuses; the mapping collapses ErrUserNotFound and ErrUserInactive
// into the same 401 so account state never leaks to a token holder.
var (
	// ErrMissingToken means no Bearer token was presented.
	ErrMissingToken = errors.New("missing authentication token")

	// ErrInvalidToken covers malformed, expired, foreign-signed and
	// revoked tokens alike.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrUserNotFound means the token's subject no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserInactive means the token's subject has been deactivated.
	ErrUserInactive = errors.New("user is inactive")

	// ErrInvalidCredentials is the single login failure. Unknown email and
	// wrong password produce this same value.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPlaintextDisabled means a legacy plaintext credential row was hit
	// while the compatibility mode is off.
	ErrPlaintextDisabled = errors.New("legacy plaintext credentials are disabled")
)
