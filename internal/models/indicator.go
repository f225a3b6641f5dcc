// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

import "time"

// DataStatus is the review state of a data point.
type DataStatus string

const (
	DataStatusDraft DataStatus = "draft"

	// DataStatusFinal means the point passed verification. Public
	// endpoints only serve final points.
	DataStatusFinal DataStatus = "final"
)

// Indicator is a statistical indicator owned by exactly one category.
type Indicator struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Unit        string    `json:"unit"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DataPoint is one observation of an indicator for a period and region.
// Verification sets Status to final and stamps VerifiedBy/VerifiedAt in
// the same update.
type DataPoint struct {
	ID          int64      `json:"id"`
	IndicatorID int64      `json:"indicator_id"`
	Year        int        `json:"year"`
	Period      string     `json:"period,omitempty"`
	Region      string     `json:"region,omitempty"`
	Value       float64    `json:"value"`
	Status      DataStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	VerifiedBy  *int64     `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DashboardSummary aggregates one category for the dashboard endpoint.
type DashboardSummary struct {
	Category        Category `json:"category"`
	Slug            string   `json:"slug"`
	IndicatorCount  int64    `json:"indicator_count"`
	PublishedCount  int64    `json:"published_count"`
	DataPointCount  int64    `json:"data_point_count"`
	VerifiedCount   int64    `json:"verified_count"`
	UnverifiedCount int64    `json:"unverified_count"`
}
