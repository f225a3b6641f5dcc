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

// FAQs are not category-scoped; any staff member with update rights
// somewhere may answer them, deletion stays superadmin-only.

// handleListFAQs lists all questions, answered or not.
func (s *Server) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if !s.policy.CanPerformAction(id.Role, policy.ActionUpdate) {
		metrics.ForbiddenTotal.WithLabelValues("faqs").Inc()
		respondForbidden(w)
		return
	}

	faqs, err := s.db.ListFAQs(r.Context(), false)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	respondJSON(w, http.StatusOK, faqs, nil)
}

// handleAnswerFAQ stores an answer and optionally publishes the entry.
func (s *Server) handleAnswerFAQ(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	faqID, ok := pathID(w, r)
	if !ok {
		return
	}

	if !s.policy.CanPerformAction(id.Role, policy.ActionUpdate) {
		metrics.ForbiddenTotal.WithLabelValues("faqs").Inc()
		respondForbidden(w)
		return
	}

	var req models.AnswerFAQRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry := activityEntry(r, id, "answer", "faqs")
	entry.ResourceID = strconv.FormatInt(faqID, 10)

	answered, err := s.db.AnswerFAQ(r.Context(), faqID, req.Answer, req.IsPublished, id.UserID, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, answered, nil)
}

// handleDeleteFAQ removes a question. Superadmin only.
func (s *Server) handleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	faqID, ok := pathID(w, r)
	if !ok {
		return
	}

	if !s.policy.CanPerformAction(id.Role, policy.ActionDelete) {
		metrics.ForbiddenTotal.WithLabelValues("faqs").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "delete", "faqs")
	entry.ResourceID = strconv.FormatInt(faqID, 10)

	if err := s.db.DeleteFAQ(r.Context(), faqID, entry); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "FAQ deleted"}, nil)
}
