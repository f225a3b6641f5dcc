// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/statindo/statindo/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Email:    "admin@statindo.id",
		Name:     "Admin",
		Role:     models.RoleAdminEkonomi,
		IsActive: true,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, 24*time.Hour)

	token, expiresAt, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	remaining := time.Until(expiresAt)
	if remaining < 23*time.Hour || remaining > 24*time.Hour {
		t.Errorf("expiry %s away, want about 24h", remaining)
	}

	claims, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.Email != "admin@statindo.id" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != models.RoleAdminEkonomi {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.ID == "" {
		t.Error("empty jti")
	}

	id, err := claims.UserID()
	if err != nil || id != 7 {
		t.Errorf("UserID() = %d, %v; want 7, nil", id, err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour)
	verifier := NewTokenManager("a-completely-different-secret-value", time.Hour)

	token, _, err := issuer.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	token, _, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, err := tm.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 500)} {
		if _, err := tm.Validate(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) err = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tm.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token err = %v, want ErrInvalidToken", err)
	}
}

func TestRemainingLifetime(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, _, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	claims, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	remaining := tm.RemainingLifetime(claims)
	if remaining <= 59*time.Minute || remaining > time.Hour {
		t.Errorf("RemainingLifetime = %s, want just under 1h", remaining)
	}

	if got := tm.RemainingLifetime(&Claims{}); got != 0 {
		t.Errorf("RemainingLifetime of empty claims = %s, want 0", got)
	}
}
