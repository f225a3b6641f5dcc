// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
)

// slugify turns a title into a URL slug: lowercase ASCII, hyphens between
// words, everything else dropped.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "artikel"
	}
	return slug
}

// handleListArticles lists articles in the caller's visible categories.
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	visible, ok := s.visibleCategories(w, r, id.Role)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	articles, err := s.db.ListArticles(r.Context(), database.ArticleFilter{
		Categories: visible,
		Limit:      limit,
		Offset:     offset,
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

// handleGetArticle fetches one article the caller may read.
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	articleID, ok := pathID(w, r)
	if !ok {
		return
	}

	article, err := s.db.GetArticle(r.Context(), articleID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !s.policy.CanAccessCategory(id.Role, article.Category) {
		metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
		respondForbidden(w)
		return
	}
	respondJSON(w, http.StatusOK, article, nil)
}

// handleCreateArticle creates a draft article. Writing is an update-level
// action in the article's category.
func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	id := identity(r)

	var req models.CreateArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, ok := parseCategory(w, req.Category)
	if !ok {
		return
	}

	if !s.policy.CanPerform(id.Role, policy.ActionUpdate, category) {
		metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "create", "articles")
	entry.Category = string(category)

	article := &models.Article{
		Title:    req.Title,
		Slug:     slugify(req.Title),
		Category: category,
		Summary:  req.Summary,
		Body:     req.Body,
		AuthorID: id.UserID,
	}

	created, err := s.db.CreateArticle(r.Context(), article, entry)
	if errors.Is(err, database.ErrConflict) {
		// Slug collision; retry once with a random suffix.
		article.Slug = article.Slug + "-" + uuid.New().String()[:8]
		created, err = s.db.CreateArticle(r.Context(), article, entry)
	}
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created, nil)
}

// handleUpdateArticle updates an article, checking both the current and
// any target category.
func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	articleID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	existing, err := s.db.GetArticle(r.Context(), articleID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	if !s.policy.CanPerform(id.Role, policy.ActionUpdate, existing.Category) {
		metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
		respondForbidden(w)
		return
	}
	if req.Category != nil {
		target, ok := parseCategory(w, *req.Category)
		if !ok {
			return
		}
		if !s.policy.CanPerform(id.Role, policy.ActionUpdate, target) {
			metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
			respondForbidden(w)
			return
		}
	}

	entry := activityEntry(r, id, "update", "articles")
	entry.ResourceID = strconv.FormatInt(articleID, 10)
	entry.Category = string(existing.Category)

	updated, err := s.db.UpdateArticle(r.Context(), articleID, &req, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated, nil)
}

// handlePublishArticle publishes an article in the caller's category.
func (s *Server) handlePublishArticle(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	articleID, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := s.db.GetArticle(r.Context(), articleID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !s.policy.CanPerform(id.Role, policy.ActionVerify, existing.Category) {
		metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "publish", "articles")
	entry.ResourceID = strconv.FormatInt(articleID, 10)
	entry.Category = string(existing.Category)

	published, err := s.db.PublishArticle(r.Context(), articleID, entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, published, nil)
}

// handleDeleteArticle removes an article. Superadmin only.
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	articleID, ok := pathID(w, r)
	if !ok {
		return
	}

	existing, err := s.db.GetArticle(r.Context(), articleID)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if !s.policy.CanPerform(id.Role, policy.ActionDelete, existing.Category) {
		metrics.ForbiddenTotal.WithLabelValues("articles").Inc()
		respondForbidden(w)
		return
	}

	entry := activityEntry(r, id, "delete", "articles")
	entry.ResourceID = strconv.FormatInt(articleID, 10)
	entry.Category = string(existing.Category)

	if err := s.db.DeleteArticle(r.Context(), articleID, entry); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Article deleted"}, nil)
}
