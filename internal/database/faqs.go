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

	"github.com/statindo/statindo/internal/models"
)

const faqColumns = `id, question, answer, asked_by, is_published,
	answered_by, answered_at, created_at, updated_at`

// scanFAQ reads one FAQ row.
func scanFAQ(row interface{ Scan(...any) error }) (*models.FAQ, error) {
	var f models.FAQ
	var answer, askedBy sql.NullString
	var answeredBy sql.NullInt64
	var answeredAt sql.NullTime

	err := row.Scan(&f.ID, &f.Question, &answer, &askedBy, &f.IsPublished,
		&answeredBy, &answeredAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan faq: %w", err)
	}

	f.Answer = answer.String
	f.AskedBy = askedBy.String
	if answeredBy.Valid {
		f.AnsweredBy = &answeredBy.Int64
	}
	if answeredAt.Valid {
		f.AnsweredAt = &answeredAt.Time
	}
	return &f, nil
}

// ListFAQs returns FAQs, newest first. publishedOnly restricts to the
// public subset.
func (db *DB) ListFAQs(ctx context.Context, publishedOnly bool) ([]models.FAQ, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + faqColumns + ` FROM faqs`
	if publishedOnly {
		query += ` WHERE is_published = true`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var faqs []models.FAQ
	for rows.Next() {
		f, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		faqs = append(faqs, *f)
	}
	return faqs, rows.Err()
}

// GetFAQ fetches one FAQ by id.
func (db *DB) GetFAQ(ctx context.Context, id int64) (*models.FAQ, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + faqColumns + ` FROM faqs WHERE id = ?`
	return scanFAQ(db.conn.QueryRowContext(ctx, query, id))
}

// SubmitFAQ stores a visitor question. Submissions start unanswered and
// unpublished; no activity row because there is no authenticated actor.
func (db *DB) SubmitFAQ(ctx context.Context, question, askedBy string) (*models.FAQ, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `INSERT INTO faqs (question, asked_by) VALUES (?, ?) RETURNING ` + faqColumns
	return scanFAQ(db.conn.QueryRowContext(ctx, query, question, nullIfEmpty(askedBy)))
}

// AnswerFAQ stores an answer, optionally publishing, and logs atomically.
func (db *DB) AnswerFAQ(ctx context.Context, id int64, answer string, publish bool, answeredBy int64, entry *models.ActivityEntry) (*models.FAQ, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var answered *models.FAQ
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE faqs
			SET answer = ?, is_published = ?, answered_by = ?, answered_at = CURRENT_TIMESTAMP,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
			RETURNING ` + faqColumns

		var err error
		if answered, err = scanFAQ(tx.QueryRowContext(ctx, query, answer, publish, answeredBy, id)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return answered, nil
}

// DeleteFAQ removes a question, logging atomically.
func (db *DB) DeleteFAQ(ctx context.Context, id int64, entry *models.ActivityEntry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete faq: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
}
