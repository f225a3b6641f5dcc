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

const dataPointColumns = `id, indicator_id, year, period, region, value, status,
	notes, verified_by, verified_at, created_by, created_at, updated_at`

// scanDataPoint reads one data point row.
func scanDataPoint(row interface{ Scan(...any) error }) (*models.DataPoint, error) {
	var dp models.DataPoint
	var period, region, notes sql.NullString
	var verifiedBy sql.NullInt64
	var verifiedAt sql.NullTime

	err := row.Scan(&dp.ID, &dp.IndicatorID, &dp.Year, &period, &region, &dp.Value,
		&dp.Status, &notes, &verifiedBy, &verifiedAt, &dp.CreatedBy, &dp.CreatedAt, &dp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan data point: %w", err)
	}

	dp.Period = period.String
	dp.Region = region.String
	dp.Notes = notes.String
	if verifiedBy.Valid {
		dp.VerifiedBy = &verifiedBy.Int64
	}
	if verifiedAt.Valid {
		dp.VerifiedAt = &verifiedAt.Time
	}
	return &dp, nil
}

// ListDataPoints returns an indicator's observations, newest year first.
// finalOnly restricts to verified points, for the public surface.
func (db *DB) ListDataPoints(ctx context.Context, indicatorID int64, finalOnly bool) ([]models.DataPoint, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + dataPointColumns + ` FROM indicator_data WHERE indicator_id = ?`
	if finalOnly {
		query += ` AND status = 'final'`
	}
	query += ` ORDER BY year DESC, period, region, id`

	rows, err := db.conn.QueryContext(ctx, query, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.DataPoint
	for rows.Next() {
		dp, err := scanDataPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, *dp)
	}
	return points, rows.Err()
}

// GetDataPoint fetches one observation by id.
func (db *DB) GetDataPoint(ctx context.Context, id int64) (*models.DataPoint, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + dataPointColumns + ` FROM indicator_data WHERE id = ?`
	return scanDataPoint(db.conn.QueryRowContext(ctx, query, id))
}

// CreateDataPoint inserts a draft observation and its activity row in one
// transaction.
func (db *DB) CreateDataPoint(ctx context.Context, dp *models.DataPoint, entry *models.ActivityEntry) (*models.DataPoint, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var created *models.DataPoint
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO indicator_data (indicator_id, year, period, region, value, status, notes, created_by)
			VALUES (?, ?, ?, ?, ?, 'draft', ?, ?)
			RETURNING ` + dataPointColumns

		row := tx.QueryRowContext(ctx, query, dp.IndicatorID, dp.Year,
			nullIfEmpty(dp.Period), nullIfEmpty(dp.Region), dp.Value, nullIfEmpty(dp.Notes), dp.CreatedBy)

		var err error
		if created, err = scanDataPoint(row); err != nil {
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

// UpdateDataPoint applies non-nil fields. Any edit demotes the point back
// to draft and clears the verification stamp; changed numbers need a fresh
// review.
func (db *DB) UpdateDataPoint(ctx context.Context, id int64, req *models.UpdateDataPointRequest, entry *models.ActivityEntry) (*models.DataPoint, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	sets := []string{
		"updated_at = CURRENT_TIMESTAMP",
		"status = 'draft'",
		"verified_by = NULL",
		"verified_at = NULL",
	}
	args := []any{}

	if req.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *req.Year)
	}
	if req.Period != nil {
		sets = append(sets, "period = ?")
		args = append(args, *req.Period)
	}
	if req.Region != nil {
		sets = append(sets, "region = ?")
		args = append(args, *req.Region)
	}
	if req.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *req.Value)
	}
	if req.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *req.Notes)
	}
	args = append(args, id)

	var updated *models.DataPoint
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE indicator_data SET %s WHERE id = ? RETURNING %s`,
			strings.Join(sets, ", "), dataPointColumns)

		var err error
		if updated, err = scanDataPoint(tx.QueryRowContext(ctx, query, args...)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// VerifyDataPoint finalizes an observation: status, verifier and timestamp
// change in a single UPDATE so a point is never final without its stamp.
func (db *DB) VerifyDataPoint(ctx context.Context, id, verifierID int64, entry *models.ActivityEntry) (*models.DataPoint, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var verified *models.DataPoint
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE indicator_data
			SET status = 'final', verified_by = ?, verified_at = CURRENT_TIMESTAMP,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
			RETURNING ` + dataPointColumns

		var err error
		if verified, err = scanDataPoint(tx.QueryRowContext(ctx, query, verifierID, id)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return verified, nil
}

// DeleteDataPoint removes an observation, logging atomically.
func (db *DB) DeleteDataPoint(ctx context.Context, id int64, entry *models.ActivityEntry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM indicator_data WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete data point: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
}
