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

const articleColumns = `id, title, slug, category, summary, body,
	is_published, published_at, author_id, created_at, updated_at`

// scanArticle reads one article row.
func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var summary sql.NullString
	var publishedAt sql.NullTime

	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Category, &summary, &a.Body,
		&a.IsPublished, &publishedAt, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	a.Summary = summary.String
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}

// ArticleFilter narrows article listings. Categories is the authorized
// visible set.
type ArticleFilter struct {
	Categories    []models.Category
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ListArticles returns articles in the given categories, newest first.
func (db *DB) ListArticles(ctx context.Context, filter ArticleFilter) ([]models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	predicate, args := categoryPredicate("category", filter.Categories)
	query := `SELECT ` + articleColumns + ` FROM articles WHERE ` + predicate
	if filter.PublishedOnly {
		query += ` AND is_published = true`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

// GetArticle fetches one article by id.
func (db *DB) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = ?`
	return scanArticle(db.conn.QueryRowContext(ctx, query, id))
}

// GetPublishedArticleBySlug fetches one published article for the public
// surface. The predicate is fixed here; no caller input reaches it.
func (db *DB) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = ? AND is_published = true`
	return scanArticle(db.conn.QueryRowContext(ctx, query, slug))
}

// CreateArticle inserts an article and its activity row in one
// transaction. Slug collisions surface as ErrConflict.
func (db *DB) CreateArticle(ctx context.Context, a *models.Article, entry *models.ActivityEntry) (*models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var created *models.Article
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO articles (title, slug, category, summary, body, author_id)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING ` + articleColumns

		row := tx.QueryRowContext(ctx, query, a.Title, a.Slug, a.Category,
			nullIfEmpty(a.Summary), a.Body, a.AuthorID)

		var err error
		if created, err = scanArticle(row); err != nil {
			if isConflict(err) {
				return ErrConflict
			}
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

// UpdateArticle applies non-nil fields and logs atomically.
func (db *DB) UpdateArticle(ctx context.Context, id int64, req *models.UpdateArticleRequest, entry *models.ActivityEntry) (*models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *req.Summary)
	}
	if req.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *req.Body)
	}
	args = append(args, id)

	var updated *models.Article
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = ? RETURNING %s`,
			strings.Join(sets, ", "), articleColumns)

		var err error
		if updated, err = scanArticle(tx.QueryRowContext(ctx, query, args...)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PublishArticle flips is_published and stamps published_at in one UPDATE.
func (db *DB) PublishArticle(ctx context.Context, id int64, entry *models.ActivityEntry) (*models.Article, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var published *models.Article
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE articles
			SET is_published = true, published_at = COALESCE(published_at, CURRENT_TIMESTAMP),
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
			RETURNING ` + articleColumns

		var err error
		if published, err = scanArticle(tx.QueryRowContext(ctx, query, id)); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// DeleteArticle removes an article, logging atomically.
func (db *DB) DeleteArticle(ctx context.Context, id int64, entry *models.ActivityEntry) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		return insertActivityTx(ctx, tx, entry)
	})
}
