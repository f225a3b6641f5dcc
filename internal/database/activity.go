// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/statindo/statindo/internal/models"
)

// insertActivityTx writes one activity row inside an open transaction.
// The mutation stores call this so log and change commit or roll back
// together. A nil entry is skipped.
func insertActivityTx(ctx context.Context, tx *sql.Tx, entry *models.ActivityEntry) error {
	if entry == nil {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `INSERT INTO activity_logs (id, user_id, user_email, action, resource, resource_id, category, detail, source_ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := tx.ExecContext(ctx, query, entry.ID, entry.UserID, entry.UserEmail,
		entry.Action, entry.Resource, nullIfEmpty(entry.ResourceID),
		nullIfEmpty(entry.Category), nullIfEmpty(entry.Detail), nullIfEmpty(entry.SourceIP))
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}
	return nil
}

// InsertActivity writes one activity row outside a transaction, for the
// async request logger.
func (db *DB) InsertActivity(ctx context.Context, entry *models.ActivityEntry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		return insertActivityTx(ctx, tx, entry)
	})
}

// ListActivity queries the activity log, newest first.
func (db *DB) ListActivity(ctx context.Context, filter models.ActivityFilter) ([]models.ActivityEntry, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT id, user_id, user_email, action, resource, resource_id, category, detail, source_ip, created_at
		FROM activity_logs WHERE 1 = 1`
	args := []any{}

	if filter.UserID > 0 {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, filter.Action)
	}
	if filter.Resource != "" {
		query += ` AND resource = ?`
		args = append(args, filter.Resource)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		query += ` AND created_at <= ?`
		args = append(args, *filter.Until)
	}

	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		var resourceID, category, detail, sourceIP sql.NullString

		err := rows.Scan(&e.ID, &e.UserID, &e.UserEmail, &e.Action, &e.Resource,
			&resourceID, &category, &detail, &sourceIP, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}

		e.ResourceID = resourceID.String
		e.Category = category.String
		e.Detail = detail.String
		e.SourceIP = sourceIP.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneActivity removes entries older than the cutoff and returns the
// number deleted.
func (db *DB) PruneActivity(ctx context.Context, olderThan time.Time) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, `DELETE FROM activity_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}
	return res.RowsAffected()
}
