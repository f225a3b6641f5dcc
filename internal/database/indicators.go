// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/statindo/statindo/internal/models"
)

const indicatorColumns = `id, name, category, unit, description, source,
	is_published, created_by, created_at, updated_at`

// scanIndicator reads one indicator row.
func scanIndicator(row interface{ Scan(...any) error }) (*models.Indicator, error) {
	var ind models.Indicator
	var description, source sql.NullString

	err := row.Scan(&ind.ID, &ind.Name, &ind.Category, &ind.Unit, &description,
		&source, &ind.IsPublished, &ind.CreatedBy, &ind.CreatedAt, &ind.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan indicator: %w", err)
	}

	ind.Description = description.String
	ind.Source = source.String
	return &ind, nil
}

// categoryPredicate builds an IN clause for a category set. An empty set
// yields a predicate matching nothing; callers with nothing visible must
// not reach the database, but the fallback still returns zero rows.
func categoryPredicate(column string, categories []models.Category) (string, []any) {
	if len(categories) == 0 {
		return "1 = 0", nil
	}

	placeholders := make([]string, len(categories))
	args := make([]any, len(categories))
	for i, c := range categories {
		placeholders[i] = "?"
		args[i] = string(c)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")), args
}

// IndicatorFilter narrows indicator listings. Categories is the already
// authorized visible set, never the raw client filter.
type IndicatorFilter struct {
	Categories    []models.Category
	PublishedOnly bool
	Search        string
	Limit         int
	Offset        int
}

// ListIndicators returns indicators in the given categories.
func (db *DB) ListIndicators(ctx context.Context, filter IndicatorFilter) ([]models.Indicator, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	predicate, args := categoryPredicate("category", filter.Categories)
	query := `SELECT ` + indicatorColumns + ` FROM indicators WHERE ` + predicate

	if filter.PublishedOnly {
		query += ` AND is_published = true`
	}
	if filter.Search != "" {
		query += ` AND LOWER(name) LIKE '%' || LOWER(?) || '%'`
		args = append(args, filter.Search)
	}

	query += ` ORDER BY category, name, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var indicators []models.Indicator
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, *ind)
	}
	return indicators, rows.Err()
}

// GetIndicator fetches one indicator by id.
func (db *DB) GetIndicator(ctx context.Context, id int64) (*models.Indicator, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + indicatorColumns + ` FROM indicators WHERE id = ?`
	return scanIndicator(db.conn.QueryRowContext(ctx, query, id))
}

// CreateIndicator inserts an indicator and its activity row in one
// transaction.
func (db *DB) CreateIndicator(ctx context.Context, ind *models.Indicator, entry *models.ActivityEntry) (*models.Indicator, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var created *models.Indicator
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO indicators (name, category, unit, description, source, is_published, created_by)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING ` + indicatorColumns

		row := tx.QueryRowContext(ctx, query, ind.Name, ind.Category, ind.Unit,
			nullIfEmpty(ind.Description), nullIfEmpty(ind.Source), ind.IsPublished, ind.CreatedBy)

		var err error
		if created, err = scanIndicator(row); err != nil {
			return err
		}

		entry.ResourceID = fmt.Sprintf("%d", created.ID)
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateIndicator applies non-nil fields and writes the activity row in
// the same transaction.
func (db *DB) UpdateIndicator(ctx context.Context, id int64, req *models.UpdateIndicatorRequest, entry *models.ActivityEntry) (*models.Indicator, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, *req.Unit)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Source != nil {
		sets = append(sets, "source = ?")
		args = append(args, *req.Source)
	}
	if req.IsPublished != nil {
		sets = append(sets, "is_published = ?")
		args = append(args, *req.IsPublished)
	}
	args = append(args, id)

	var updated *models.Indicator
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE indicators SET %s WHERE id = ? RETURNING %s`,
			strings.Join(sets, ", "), indicatorColumns)

		var err error
		if updated, err = scanIndicator(tx.QueryRowContext(ctx, query, args...)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteIndicator removes an indicator and its data points, logging the
// deletion atomically.
func (db *DB) DeleteIndicator(ctx context.Context, id int64, entry *models.ActivityEntry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM indicator_data WHERE indicator_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete indicator data: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM indicators WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete indicator: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
}

// nullIfEmpty maps "" to NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
