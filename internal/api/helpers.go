// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package api wires the HTTP surface: routing, request parsing, the
// authenticate -> authorize -> execute pipeline and response encoding.
package api

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/logging"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
	"github.com/statindo/statindo/internal/validation"
)

// maxBodySize caps request payloads at 1 MiB.
const maxBodySize = 1 << 20

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// respondJSON writes a success envelope.
func respondJSON(w http.ResponseWriter, status int, data any, meta *models.Metadata) {
	if meta == nil {
		meta = &models.Metadata{}
	}
	meta.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	}); err != nil {
		logging.Err(err).Msg("Failed to encode response")
	}
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Error:    &models.APIError{Code: code, Message: message, Details: details},
		Metadata: &models.Metadata{Timestamp: time.Now().UTC()},
	}); err != nil {
		logging.Err(err).Msg("Failed to encode error response")
	}
}

// respondInternal hides the cause behind a generic 500 and logs it.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	logging.Err(err).Str("path", r.URL.Path).Str("method", r.Method).
		Msg("Request failed")
	respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
		"An internal error occurred", nil)
}

// respondStoreError maps database sentinels; anything else is internal.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, models.ErrCodeConflict, "Resource already exists", nil)
	default:
		respondInternal(w, r, err)
	}
}

// respondForbidden is the single 403 shape.
func respondForbidden(w http.ResponseWriter) {
	respondError(w, http.StatusForbidden, models.ErrCodeForbidden,
		"You do not have access to this resource", nil)
}

// decodeBody parses and validates a JSON request payload.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"Request body is not valid JSON", nil)
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			fmt.Sprintf("Invalid id %q", raw), nil)
		return 0, false
	}
	return id, true
}

// identity returns the authenticated caller. The auth middleware
// guarantees presence on protected routes; absence is a programming error.
func identity(r *http.Request) *models.Identity {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		panic("handler reached without authentication middleware")
	}
	return id
}

// pagination reads page/page_size query parameters.
func pagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("page_size"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}

// requestedCategories parses the ?category= filter (comma-separated
// slugs, repeatable). Unknown slugs are a validation error; nil means no
// filter.
func requestedCategories(r *http.Request) ([]models.Category, error) {
	var requested []models.Category
	for _, raw := range r.URL.Query()["category"] {
		for _, slug := range strings.Split(raw, ",") {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			c, ok := models.CategoryFromSlug(slug)
			if !ok {
				return nil, fmt.Errorf("unknown category %q", slug)
			}
			requested = append(requested, c)
		}
	}
	return requested, nil
}

// visibleCategories resolves the caller's effective category set from the
// request filter. It writes the response on failure and returns ok=false.
func (s *Server) visibleCategories(w http.ResponseWriter, r *http.Request, role models.Role) ([]models.Category, bool) {
	requested, err := requestedCategories(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return nil, false
	}

	visible, err := s.policy.VisibleIntersection(role, requested)
	if err != nil {
		if errors.Is(err, policy.ErrNoVisibleCategories) {
			respondForbidden(w)
			return nil, false
		}
		respondInternal(w, r, err)
		return nil, false
	}
	return visible, true
}

// parseCategory validates a category display name from a request body.
func parseCategory(w http.ResponseWriter, raw string) (models.Category, bool) {
	c := models.Category(raw)
	if !c.IsValid() {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			fmt.Sprintf("Unknown category %q", raw), nil)
		return "", false
	}
	return c, true
}

// clientIP extracts the remote IP for activity entries.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// activityEntry builds the base activity row for the caller.
func activityEntry(r *http.Request, id *models.Identity, action, resource string) *models.ActivityEntry {
	return &models.ActivityEntry{
		UserID:    id.UserID,
		UserEmail: id.Email,
		Action:    action,
		Resource:  resource,
		SourceIP:  clientIP(r),
	}
}
