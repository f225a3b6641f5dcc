// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=256"`
	Year     int    `validate:"omitempty,min=1900,max=2100"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Email: "admin@statindo.id", Password: "correcthorse", Year: 2024}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateStructFails(t *testing.T) {
	tests := []struct {
		name      string
		req       sampleRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "missing email",
			req:       sampleRequest{Password: "correcthorse"},
			wantField: "Email",
			wantTag:   "required",
		},
		{
			name:      "malformed email",
			req:       sampleRequest{Email: "not-an-email", Password: "correcthorse"},
			wantField: "Email",
			wantTag:   "email",
		},
		{
			name:      "short password",
			req:       sampleRequest{Email: "admin@statindo.id", Password: "abc"},
			wantField: "Password",
			wantTag:   "min",
		},
		{
			name:      "year out of range",
			req:       sampleRequest{Email: "admin@statindo.id", Password: "correcthorse", Year: 3000},
			wantField: "Year",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	req := sampleRequest{Email: "admin@statindo.id", Password: ""}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "Password is required") {
		t.Errorf("Message = %q, want mention of required Password", apiErr.Message)
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	req := sampleRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("expected multiple errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	fields, ok := apiErr.Details["fields"]
	if !ok {
		t.Fatalf("expected fields detail, got %v", apiErr.Details)
	}
	if list, ok := fields.([]map[string]interface{}); !ok || len(list) < 2 {
		t.Errorf("fields detail = %v, want list of at least 2", fields)
	}
}
