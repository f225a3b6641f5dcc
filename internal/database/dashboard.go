// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package database

import (
	"context"
	"fmt"

	"github.com/statindo/statindo/internal/models"
)

// DashboardSummaries aggregates indicator and data point counts per
// category. Only the given categories are computed; a caller with nothing
// visible gets an empty slice.
func (db *DB) DashboardSummaries(ctx context.Context, categories []models.Category) ([]models.DashboardSummary, error) {
	if len(categories) == 0 {
		return []models.DashboardSummary{}, nil
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	predicate, args := categoryPredicate("i.category", categories)
	query := `SELECT i.category,
			COUNT(DISTINCT i.id) AS indicator_count,
			COUNT(DISTINCT CASE WHEN i.is_published THEN i.id END) AS published_count,
			COUNT(d.id) AS data_point_count,
			COUNT(CASE WHEN d.status = 'final' THEN d.id END) AS verified_count
		FROM indicators i
		LEFT JOIN indicator_data d ON d.indicator_id = i.id
		WHERE ` + predicate + `
		GROUP BY i.category`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byCategory := make(map[models.Category]models.DashboardSummary, len(categories))
	for rows.Next() {
		var s models.DashboardSummary
		if err := rows.Scan(&s.Category, &s.IndicatorCount, &s.PublishedCount,
			&s.DataPointCount, &s.VerifiedCount); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard row: %w", err)
		}
		s.Slug = s.Category.Slug()
		s.UnverifiedCount = s.DataPointCount - s.VerifiedCount
		byCategory[s.Category] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Keep canonical category order and include empty categories.
	summaries := make([]models.DashboardSummary, 0, len(categories))
	for _, c := range categories {
		if s, ok := byCategory[c]; ok {
			summaries = append(summaries, s)
			continue
		}
		summaries = append(summaries, models.DashboardSummary{Category: c, Slug: c.Slug()})
	}
	return summaries, nil
}

// ExportRow is one line of the CSV indicator export.
type ExportRow struct {
	IndicatorID   int64
	IndicatorName string
	Category      models.Category
	Unit          string
	Year          int
	Period        string
	Region        string
	Value         float64
	Status        models.DataStatus
}

// ExportIndicatorData streams the joined indicator/data rows for the
// caller's visible categories.
func (db *DB) ExportIndicatorData(ctx context.Context, categories []models.Category) ([]ExportRow, error) {
	if len(categories) == 0 {
		return []ExportRow{}, nil
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	predicate, args := categoryPredicate("i.category", categories)
	query := `SELECT i.id, i.name, i.category, i.unit,
			d.year, COALESCE(d.period, ''), COALESCE(d.region, ''), d.value, d.status
		FROM indicators i
		JOIN indicator_data d ON d.indicator_id = i.id
		WHERE ` + predicate + `
		ORDER BY i.category, i.name, d.year DESC, d.period, d.region`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to export indicator data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ExportRow
	for rows.Next() {
		var r ExportRow
		if err := rows.Scan(&r.IndicatorID, &r.IndicatorName, &r.Category, &r.Unit,
			&r.Year, &r.Period, &r.Region, &r.Value, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
