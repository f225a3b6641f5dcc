// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"net/http"
	"strconv"

	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
)

// dataPointContext resolves a data point together with its indicator and
// checks the caller holds the action on the indicator's category. Writes
// the response on failure.
func (s *Server) dataPointContext(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.DataPoint, *models.Indicator, bool) {
	id := identity(r)
	dataID, ok := pathID(w, r)
	if !ok {
		return nil, nil, false
	}

	dp, err := s.db.GetDataPoint(r.Context(), dataID)
	if err != nil {
		respondStoreError(w, r, err)
		return nil, nil, false
	}

	ind, err := s.db.GetIndicator(r.Context(), dp.IndicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return nil, nil, false
	}

	if !s.policy.CanPerform(id.Role, action, ind.Category) {
		metrics.ForbiddenTotal.WithLabelValues("indicator_data").Inc()
		respondForbidden(w)
		return nil, nil, false
	}
	return dp, ind, true
}

// handleListDataPoints lists an indicator's observations.
func (s *Server) handleListDataPoints(w http.ResponseWriter, r *http.Request) {
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
		metrics.ForbiddenTotal.WithLabelValues("indicator_data").Inc()
		respondForbidden(w)
		return
	}

	points, err := s.db.ListDataPoints(r.Context(), indicatorID, false)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if points == nil {
		points = []models.DataPoint{}
	}
	respondJSON(w, http.StatusOK, points, nil)
}

// handleCreateDataPoint adds a draft observation. Data entry is an update
// on the indicator's category, not a superadmin-only create; points are
// the routine workload of category admins.
func (s *Server) handleCreateDataPoint(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	indicatorID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CreateDataPointRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ind, err := s.db.GetIndicator(r.Context(), indicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !s.policy.CanPerform(id.Role, policy.ActionUpdate, ind.Category) {
		metrics.ForbiddenTotal.WithLabelValues("indicator_data").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "create", "indicator_data")
	entry.Category = string(ind.Category)

	created, err := s.db.CreateDataPoint(r.Context(), &models.DataPoint{
		IndicatorID: indicatorID,
		Year:        req.Year,
		Period:      req.Period,
		Region:      req.Region,
		Value:       *req.Value,
		Notes:       req.Notes,
		CreatedBy:   id.UserID,
	}, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created, nil)
}

// handleUpdateDataPoint edits an observation, demoting it to draft.
func (s *Server) handleUpdateDataPoint(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	var req models.UpdateDataPointRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dp, ind, ok := s.dataPointContext(w, r, policy.ActionUpdate)
	if !ok {
		return
	}

	entry := activityEntry(r, id, "update", "indicator_data")
	entry.ResourceID = strconv.FormatInt(dp.ID, 10)
	entry.Category = string(ind.Category)

	updated, err := s.db.UpdateDataPoint(r.Context(), dp.ID, &req, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated, nil)
}

// handleVerifyDataPoint finalizes an observation. Status, verifier and
// timestamp change in one database UPDATE.
func (s *Server) handleVerifyDataPoint(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	dp, ind, ok := s.dataPointContext(w, r, policy.ActionVerify)
	if !ok {
		return
	}

	entry := activityEntry(r, id, "verify", "indicator_data")
	entry.ResourceID = strconv.FormatInt(dp.ID, 10)
	entry.Category = string(ind.Category)

	verified, err := s.db.VerifyDataPoint(r.Context(), dp.ID, id.UserID, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, verified, nil)
}

// handleDeleteDataPoint removes an observation. Superadmin only.
func (s *Server) handleDeleteDataPoint(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	dp, ind, ok := s.dataPointContext(w, r, policy.ActionDelete)
	if !ok {
		return
	}

	entry := activityEntry(r, id, "delete", "indicator_data")
	entry.ResourceID = strconv.FormatInt(dp.ID, 10)
	entry.Category = string(ind.Category)

	if err := s.db.DeleteDataPoint(r.Context(), dp.ID, entry); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Data point deleted"}, nil)
}
