// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"errors"
	"net/http"

	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
)

// handleLogin authenticates credentials and issues a token. Every failure
// is the same 401 INVALID_CREDENTIALS; nothing in the response or its
// timing distinguishes an unknown email from a wrong password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.issuer.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.RecordLogin(false)
			respondError(w, http.StatusUnauthorized, models.ErrCodeInvalidLogin,
				"Invalid email or password", nil)
			return
		}
		respondInternal(w, r, err)
		return
	}

	metrics.RecordLogin(true)
	s.activity.Record(&models.ActivityEntry{
		UserID:    resp.User.UserID,
		UserEmail: resp.User.Email,
		Action:    "login",
		Resource:  "auth",
		SourceIP:  clientIP(r),
	})

	respondJSON(w, http.StatusOK, resp, nil)
}

// handleLogout revokes the presented token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	s.authn.Logout(r)

	s.activity.Record(activityEntry(r, id, "logout", "auth"))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"}, nil)
}

// handleMe returns the caller's identity and visible categories.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	visible := s.policy.CategoriesVisibleTo(id.Role)
	access := make([]models.CategoryAccess, 0, len(visible))
	for _, c := range visible {
		access = append(access, s.policy.AccessFor(id.Role, c))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":       id,
		"categories": access,
	}, nil)
}

// handleChangePassword re-verifies the current password before replacing
// it.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	var req models.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.issuer.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, models.ErrCodeInvalidLogin,
				"Current password is incorrect", nil)
			return
		}
		respondInternal(w, r, err)
		return
	}

	s.activity.Record(activityEntry(r, id, "change_password", "auth"))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"}, nil)
}
