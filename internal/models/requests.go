// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=256"`
}

// ChangePasswordRequest re-verifies the current password before setting a
// new one.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=256"`
}

// CreateIndicatorRequest creates an indicator. Superadmin only.
type CreateIndicatorRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=200"`
	Category    string `json:"category" validate:"required"`
	Unit        string `json:"unit" validate:"required,max=50"`
	Description string `json:"description" validate:"max=2000"`
	Source      string `json:"source" validate:"max=200"`
	IsPublished bool   `json:"is_published"`
}

// UpdateIndicatorRequest updates an indicator. Nil fields are unchanged.
type UpdateIndicatorRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=200"`
	Category    *string `json:"category"`
	Unit        *string `json:"unit" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Source      *string `json:"source" validate:"omitempty,max=200"`
	IsPublished *bool   `json:"is_published"`
}

// CreateDataPointRequest adds an observation to an indicator. Value is a
// pointer so that a present-but-zero observation (a 0.0% rate is normal
// statistical data) passes the required check; only an absent value fails.
type CreateDataPointRequest struct {
	Year   int      `json:"year" validate:"required,min=1900,max=2100"`
	Period string   `json:"period" validate:"max=20"`
	Region string   `json:"region" validate:"max=100"`
	Value  *float64 `json:"value" validate:"required"`
	Notes  string   `json:"notes" validate:"max=1000"`
}

// UpdateDataPointRequest updates an observation. Nil fields are unchanged.
// Status is not settable here; verification has its own endpoint.
type UpdateDataPointRequest struct {
	Year   *int     `json:"year" validate:"omitempty,min=1900,max=2100"`
	Period *string  `json:"period" validate:"omitempty,max=20"`
	Region *string  `json:"region" validate:"omitempty,max=100"`
	Value  *float64 `json:"value"`
	Notes  *string  `json:"notes" validate:"omitempty,max=1000"`
}

// CreateArticleRequest creates an article.
type CreateArticleRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=300"`
	Category string `json:"category" validate:"required"`
	Summary  string `json:"summary" validate:"max=500"`
	Body     string `json:"body" validate:"required"`
}

// UpdateArticleRequest updates an article. Nil fields are unchanged.
type UpdateArticleRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=3,max=300"`
	Category *string `json:"category"`
	Summary  *string `json:"summary" validate:"omitempty,max=500"`
	Body     *string `json:"body"`
}

// SubmitFAQRequest is the public question-submission payload.
type SubmitFAQRequest struct {
	Question string `json:"question" validate:"required,min=10,max=1000"`
	AskedBy  string `json:"asked_by" validate:"max=100"`
}

// AnswerFAQRequest answers and optionally publishes a question.
type AnswerFAQRequest struct {
	Answer      string `json:"answer" validate:"required,min=1,max=5000"`
	IsPublished bool   `json:"is_published"`
}

// CreateUserRequest creates a staff account. Superadmin only.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

// UpdateUserRequest updates a staff account. Superadmin only.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=8,max=256"`
}
