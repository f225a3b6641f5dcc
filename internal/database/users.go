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

const userColumns = `id, email, name, role, password_hash, credential_scheme,
	is_active, last_login_at, created_at, updated_at`

// scanUser reads one user row.
func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.PasswordHash,
		&u.CredentialScheme, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

// isConflict detects a uniqueness violation in a DuckDB error.
func isConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Constraint Error")
}

// GetUserByEmail fetches a user by email, case-insensitively.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER(?)`
	return scanUser(db.conn.QueryRowContext(ctx, query, email))
}

// GetUserByID fetches a user by id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(db.conn.QueryRowContext(ctx, query, id))
}

// ListUsers returns all users, newest first.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of user rows, for seed bootstrapping.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	var count int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CreateUser inserts a user and returns the stored row. Email is stored
// lowercased so the UNIQUE constraint covers case variants.
func (db *DB) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	query := `INSERT INTO users (email, name, role, password_hash, credential_scheme, is_active)
		VALUES (LOWER(?), ?, ?, ?, ?, ?)
		RETURNING ` + userColumns

	row := db.conn.QueryRowContext(ctx, query,
		user.Email, user.Name, user.Role, user.PasswordHash, user.CredentialScheme, user.IsActive)

	created, err := scanUser(row)
	if err != nil {
		if isConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return created, nil
}

// UpdateUser applies non-nil fields of req to the user and returns the
// updated row.
func (db *DB) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *req.Role)
	}
	if req.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *req.IsActive)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = ? RETURNING %s`,
		strings.Join(sets, ", "), userColumns)
	return scanUser(db.conn.QueryRowContext(ctx, query, args...))
}

// DeactivateUser clears is_active. Accounts are never deleted; history
// rows keep referencing them.
func (db *DB) DeactivateUser(ctx context.Context, id int64) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET is_active = false, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return requireRow(res)
}

// SetCredential replaces the stored credential.
func (db *DB) SetCredential(ctx context.Context, id int64, hash string, scheme models.CredentialScheme) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, credential_scheme = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		hash, scheme, id)
	if err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}
	return requireRow(res)
}

// TouchLastLogin stamps last_login_at.
func (db *DB) TouchLastLogin(ctx context.Context, id int64) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
