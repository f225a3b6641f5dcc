// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

import "time"

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata carries pagination and timing information.
type Metadata struct {
	Page       int       `json:"page,omitempty"`
	PageSize   int       `json:"page_size,omitempty"`
	TotalCount int64     `json:"total_count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// APIError is the machine-readable error payload. Message is always safe to
// show a client; internal detail stays in the server log.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error codes used in APIError.Code.
const (
	ErrCodeMissingToken    = "MISSING_TOKEN"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidLogin    = "INVALID_CREDENTIALS"
	ErrCodeConflict        = "CONFLICT"
)

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Identity  `json:"user"`
}

// CategoryAccess describes one category plus the caller's rights on it,
// for the authenticated categories listing.
type CategoryAccess struct {
	Category  Category `json:"category"`
	Slug      string   `json:"slug"`
	CanRead   bool     `json:"can_read"`
	CanUpdate bool     `json:"can_update"`
	CanVerify bool     `json:"can_verify"`
	CanCreate bool     `json:"can_create"`
	CanDelete bool     `json:"can_delete"`
}
