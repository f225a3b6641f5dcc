// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/models"
)

// The public surface never consults the policy engine: visibility is the
// published/final flag on the row itself, hardcoded in the queries below.
// Draft and unverified rows do not exist as far as these endpoints are
// concerned, so a hidden id answers 404, never 403.

// publicCategory is the unauthenticated category listing entry.
type publicCategory struct {
	Name models.Category `json:"name"`
	Slug string          `json:"slug"`
}

// handlePublicCategories lists the category taxonomy.
func (s *Server) handlePublicCategories(w http.ResponseWriter, r *http.Request) {
	out := make([]publicCategory, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		out = append(out, publicCategory{Name: c, Slug: c.Slug()})
	}
	respondJSON(w, http.StatusOK, out, nil)
}

// handlePublicIndicators lists published indicators, optionally filtered
// by category slug.
func (s *Server) handlePublicIndicators(w http.ResponseWriter, r *http.Request) {
	requested, err := requestedCategories(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if len(requested) == 0 {
		requested = models.AllCategories
	}

	limit, offset := pagination(r)
	indicators, err := s.db.ListIndicators(r.Context(), database.IndicatorFilter{
		Categories:    requested,
		PublishedOnly: true,
		Search:        r.URL.Query().Get("search"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if indicators == nil {
		indicators = []models.Indicator{}
	}
	respondJSON(w, http.StatusOK, indicators, &models.Metadata{Page: offset/limit + 1, PageSize: limit})
}

// handlePublicIndicatorData lists the verified observations of a
// published indicator.
func (s *Server) handlePublicIndicatorData(w http.ResponseWriter, r *http.Request) {
	indicatorID, ok := pathID(w, r)
	if !ok {
		return
	}

	ind, err := s.db.GetIndicator(r.Context(), indicatorID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !ind.IsPublished {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Resource not found", nil)
		return
	}

	points, err := s.db.ListDataPoints(r.Context(), indicatorID, true)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if points == nil {
		points = []models.DataPoint{}
	}
	respondJSON(w, http.StatusOK, points, nil)
}

// handlePublicArticles lists published articles.
func (s *Server) handlePublicArticles(w http.ResponseWriter, r *http.Request) {
	requested, err := requestedCategories(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if len(requested) == 0 {
		requested = models.AllCategories
	}

	limit, offset := pagination(r)
	articles, err := s.db.ListArticles(r.Context(), database.ArticleFilter{
		Categories:    requested,
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	respondJSON(w, http.StatusOK, articles, &models.Metadata{Page: offset/limit + 1, PageSize: limit})
}

// handlePublicArticleBySlug fetches one published article by slug.
func (s *Server) handlePublicArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := s.db.GetPublishedArticleBySlug(r.Context(), slug)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, article, nil)
}

// handlePublicFAQs lists published, answered questions.
func (s *Server) handlePublicFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := s.db.ListFAQs(r.Context(), true)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	if faqs == nil {
		faqs = []models.FAQ{}
	}
	respondJSON(w, http.StatusOK, faqs, nil)
}

// handlePublicSubmitFAQ accepts a visitor question.
func (s *Server) handlePublicSubmitFAQ(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFAQRequest
	if !decodeBody(w, r, &req) {
		return
	}

	submitted, err := s.db.SubmitFAQ(r.Context(), req.Question, req.AskedBy)
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, submitted, nil)
}
