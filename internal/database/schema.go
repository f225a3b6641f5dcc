// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext bounds schema creation at startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates sequences, tables and indexes. Every statement is
// idempotent; startup replays the full list.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %s: %w", query, err)
		}
	}
	return nil
}

// schemaQueries returns the schema DDL in dependency order.
func schemaQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_users START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_indicators START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_indicator_data START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_articles START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_faqs START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			credential_scheme TEXT NOT NULL DEFAULT 'bcrypt',
			is_active BOOLEAN NOT NULL DEFAULT true,
			last_login_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS indicators (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_indicators'),
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			unit TEXT NOT NULL,
			description TEXT,
			source TEXT,
			is_published BOOLEAN NOT NULL DEFAULT false,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS indicator_data (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_indicator_data'),
			indicator_id BIGINT NOT NULL,
			year INTEGER NOT NULL,
			period TEXT,
			region TEXT,
			value DOUBLE NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			notes TEXT,
			verified_by BIGINT,
			verified_at TIMESTAMP,
			created_by BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS articles (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_articles'),
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			summary TEXT,
			body TEXT NOT NULL,
			is_published BOOLEAN NOT NULL DEFAULT false,
			published_at TIMESTAMP,
			author_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS faqs (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_faqs'),
			question TEXT NOT NULL,
			answer TEXT,
			asked_by TEXT,
			is_published BOOLEAN NOT NULL DEFAULT false,
			answered_by BIGINT,
			answered_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS activity_logs (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL,
			user_email TEXT NOT NULL,
			action TEXT NOT NULL,
			resource TEXT NOT NULL,
			resource_id TEXT,
			category TEXT,
			detail TEXT,
			source_ip TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_indicators_category ON indicators(category)`,
		`CREATE INDEX IF NOT EXISTS idx_indicator_data_indicator ON indicator_data(indicator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_indicator_data_status ON indicator_data(status)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_user ON activity_logs(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_created ON activity_logs(created_at)`,
	}
}
