// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
)

// requireUserAdmin gates the account-management surface. Writes the 403
// on failure.
func (s *Server) requireUserAdmin(w http.ResponseWriter, id *models.Identity) bool {
	if !s.policy.CanManageUsers(id.Role) {
		metrics.ForbiddenTotal.WithLabelValues("users").Inc()
		respondForbidden(w)
		return false
	}
	return true
}

// handleListUsers lists every staff account.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !s.requireUserAdmin(w, id) {
		return
	}

	users, err := s.db.ListUsers(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, users, nil)
}

// handleCreateUser creates a staff account with a bcrypt credential.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !s.requireUserAdmin(w, id) {
		return
	}

	var req models.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	role := models.Role(req.Role)
	if !role.IsValid() {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"Unknown role "+strconv.Quote(req.Role), nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	created, err := s.db.CreateUser(r.Context(), &models.User{
		Email:            req.Email,
		Name:             req.Name,
		Role:             role,
		PasswordHash:     hash,
		CredentialScheme: models.CredentialBcrypt,
		IsActive:         true,
	})
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	entry := activityEntry(r, id, "create", "users")
	entry.ResourceID = strconv.FormatInt(created.ID, 10)
	entry.Detail = created.Email
	s.activity.Record(entry)

	respondJSON(w, http.StatusCreated, created, nil)
}

// handleUpdateUser updates name, role, active flag or password.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.requireUserAdmin(w, id) {
		return
	}

	var req models.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role != nil && !models.Role(*req.Role).IsValid() {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"Unknown role "+strconv.Quote(*req.Role), nil)
		return
	}

	updated, err := s.db.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	// A password reset replaces the stored credential with bcrypt
	// regardless of the previous scheme.
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			respondInternal(w, r, err)
			return
		}
		if err := s.db.SetCredential(r.Context(), userID, hash, models.CredentialBcrypt); err != nil {
			respondStoreError(w, r, err)
			return
		}
	}

	entry := activityEntry(r, id, "update", "users")
	entry.ResourceID = strconv.FormatInt(userID, 10)
	entry.Detail = updated.Email
	s.activity.Record(entry)

	respondJSON(w, http.StatusOK, updated, nil)
}

// handleDeactivateUser disables an account. Rows are never deleted, and a
// superadmin cannot deactivate their own account.
func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	if !s.requireUserAdmin(w, id) {
		return
	}

	if userID == id.UserID {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"Cannot deactivate your own account", nil)
		return
	}

	if err := s.db.DeactivateUser(r.Context(), userID); err != nil {
		respondStoreError(w, r, err)
		return
	}

	entry := activityEntry(r, id, "deactivate", "users")
	entry.ResourceID = strconv.FormatInt(userID, 10)
	s.activity.Record(entry)

	respondJSON(w, http.StatusOK, map[string]string{"message": "User deactivated"}, nil)
}

// handleListActivity queries the activity log. Superadmin only.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !s.policy.CanViewActivity(id.Role) {
		metrics.ForbiddenTotal.WithLabelValues("activity").Inc()
		respondForbidden(w)
		return
	}

	q := r.URL.Query()
	limit, offset := pagination(r)
	filter := models.ActivityFilter{
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := q.Get("user_id"); raw != "" {
		uid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || uid <= 0 {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
				"Invalid user_id "+strconv.Quote(raw), nil)
			return
		}
		filter.UserID = uid
	}
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
				"Invalid since timestamp, want RFC 3339", nil)
			return
		}
		filter.Since = &t
	}
	if raw := q.Get("until"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
				"Invalid until timestamp, want RFC 3339", nil)
			return
		}
		filter.Until = &t
	}

	entries, err := s.db.ListActivity(r.Context(), filter)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.ActivityEntry{}
	}
	respondJSON(w, http.StatusOK, entries, &models.Metadata{Page: offset/limit + 1, PageSize: limit})
}
