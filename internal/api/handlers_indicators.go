// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"net/http"
	"strconv"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
)

// handleListIndicators lists indicators in the caller's visible
// categories, intersected with any ?category= filter.
func (s *Server) handleListIndicators(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	visible, ok := s.visibleCategories(w, r, id.Role)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	indicators, err := s.db.ListIndicators(r.Context(), database.IndicatorFilter{
		Categories: visible,
		Search:     r.URL.Query().Get("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if indicators == nil {
		indicators = []models.Indicator{}
	}

	respondJSON(w, http.StatusOK, indicators, &models.Metadata{
		Page:     offset/limit + 1,
		PageSize: limit,
	})
}

// handleGetIndicator fetches one indicator the caller may read.
func (s *Server) handleGetIndicator(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	indicatorID, ok := pathID(w, r)
	if !ok {
		return
	}

	ind, err := s.db.GetIndicator(r.Context(), indicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if !s.policy.CanAccessCategory(id.Role, ind.Category) {
		metrics.ForbiddenTotal.WithLabelValues("indicators").Inc()
		respondForbidden(w)
		return
	}

	respondJSON(w, http.StatusOK, ind, nil)
}

// handleCreateIndicator creates an indicator. Creation is a
// superadmin-only action regardless of category.
func (s *Server) handleCreateIndicator(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	var req models.CreateIndicatorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, ok := parseCategory(w, req.Category)
	if !ok {
		return
	}

	if !s.policy.CanPerform(id.Role, policy.ActionCreate, category) {
		metrics.ForbiddenTotal.WithLabelValues("indicators").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "create", "indicators")
	entry.Category = string(category)

	created, err := s.db.CreateIndicator(r.Context(), &models.Indicator{
		Name:        req.Name,
		Category:    category,
		Unit:        req.Unit,
		Description: req.Description,
		Source:      req.Source,
		IsPublished: req.IsPublished,
		CreatedBy:   id.UserID,
	}, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created, nil)
}

// handleUpdateIndicator updates an indicator. The caller needs update
// rights on the row's current category AND, when recategorizing, on the
// target category. Checking only one would let an admin move rows across
// the category boundary.
func (s *Server) handleUpdateIndicator(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	indicatorID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateIndicatorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	existing, err := s.db.GetIndicator(r.Context(), indicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if !s.policy.CanPerform(id.Role, policy.ActionUpdate, existing.Category) {
		metrics.ForbiddenTotal.WithLabelValues("indicators").Inc()
		respondForbidden(w)
		return
	}
	if req.Category != nil {
		target, ok := parseCategory(w, *req.Category)
		if !ok {
			return
		}
		if !s.policy.CanPerform(id.Role, policy.ActionUpdate, target) {
			metrics.ForbiddenTotal.WithLabelValues("indicators").Inc()
			respondForbidden(w)
			return
		}
	}

	entry := activityEntry(r, id, "update", "indicators")
	entry.ResourceID = strconv.FormatInt(indicatorID, 10)
	entry.Category = string(existing.Category)

	updated, err := s.db.UpdateIndicator(r.Context(), indicatorID, &req, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated, nil)
}

// handleDeleteIndicator removes an indicator and its data points.
// Deletion is superadmin-only.
func (s *Server) handleDeleteIndicator(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	indicatorID, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := s.db.GetIndicator(r.Context(), indicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if !s.policy.CanPerform(id.Role, policy.ActionDelete, existing.Category) {
		metrics.ForbiddenTotal.WithLabelValues("indicators").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "delete", "indicators")
	entry.ResourceID = strconv.FormatInt(indicatorID, 10)
	entry.Category = string(existing.Category)

	if err := s.db.DeleteIndicator(r.Context(), indicatorID, entry); err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Indicator deleted"}, nil)
}

// handleCategories lists every category with the caller's access flags.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	access := make([]models.CategoryAccess, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		access = append(access, s.policy.AccessFor(id.Role, c))
	}
	respondJSON(w, http.StatusOK, access, nil)
}
