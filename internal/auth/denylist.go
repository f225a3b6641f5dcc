// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/statindo/statindo/internal/logging"
)

// Denylist records revoked token IDs in badger so logout takes effect
// before the token expires. Entries carry the token's remaining lifetime
// as TTL and vanish on their own once the token would have expired anyway.
type Denylist struct {
	db *badger.DB
}

// NewDenylist opens the denylist store at path. An empty path keeps the
// store in memory, which suits development and tests.
func NewDenylist(path string) (*Denylist, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open denylist store: %w", err)
	}

	return &Denylist{db: db}, nil
}

// Revoke marks a token ID as revoked for the given lifetime. A zero or
// negative lifetime is a no-op; the token is already expired.
func (d *Denylist) Revoke(jti string, lifetime time.Duration) error {
	if jti == "" || lifetime <= 0 {
		return nil
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(jti), []byte{1}).WithTTL(lifetime)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token ID has been revoked. Store errors
// count as revoked; the check fails closed.
func (d *Denylist) IsRevoked(jti string) bool {
	if jti == "" {
		return false
	}

	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(jti))
		return err
	})

	switch {
	case err == nil:
		return true
	case errors.Is(err, badger.ErrKeyNotFound):
		return false
	default:
		logging.Err(err).Msg("Denylist lookup failed, treating token as revoked")
		return true
	}
}

// Serve runs badger value-log garbage collection until ctx is canceled.
// It implements suture.Service.
func (d *Denylist) Serve(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to collect.
			if err := d.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Err(err).Msg("Denylist GC pass failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (d *Denylist) String() string {
	return "auth.denylist"
}

// Close releases the underlying store.
func (d *Denylist) Close() error {
	return d.db.Close()
}
