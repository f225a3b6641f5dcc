// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/statindo/statindo/internal/models"
)

// handleDashboard aggregates the caller's visible categories. A viewer
// gets an empty list, not an error; the dashboard page itself is
// reachable by any authenticated account.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	visible, ok := s.visibleCategories(w, r, id.Role)
	if !ok {
		return
	}

	summaries, err := s.db.DashboardSummaries(r.Context(), visible)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries, nil)
}

// handleExportIndicators streams the caller's visible indicator data as
// CSV. The export honors the same category intersection as the listings.
func (s *Server) handleExportIndicators(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	visible, ok := s.visibleCategories(w, r, id.Role)
	if !ok {
		return
	}

	rows, err := s.db.ExportIndicatorData(r.Context(), visible)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	s.activity.Record(activityEntry(r, id, "export", "indicators"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="indicators.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"indicator_id", "indicator_name", "category", "unit",
		"year", "period", "region", "value", "status"})

	for i := range rows {
		row := &rows[i]
		_ = cw.Write([]string{
			strconv.FormatInt(row.IndicatorID, 10),
			row.IndicatorName,
			string(row.Category),
			row.Unit,
			strconv.Itoa(row.Year),
			row.Period,
			row.Region,
			fmt.Sprintf("%g", row.Value),
			string(row.Status),
		})
	}
	cw.Flush()
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeInternal,
			"Database unreachable", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
}
