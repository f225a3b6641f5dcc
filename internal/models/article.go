// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

import "time"

// Article is an editorial piece attached to a category. Public readers see
// only published articles, addressed by slug.
type Article struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Category    Category   `json:"category"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	AuthorID    int64      `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FAQ is a visitor-submitted question with a staff answer. Submissions
// arrive unanswered and unpublished; publication requires an answer.
type FAQ struct {
	ID          int64      `json:"id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer,omitempty"`
	AskedBy     string     `json:"asked_by,omitempty"`
	IsPublished bool       `json:"is_published"`
	AnsweredBy  *int64     `json:"answered_by,omitempty"`
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
