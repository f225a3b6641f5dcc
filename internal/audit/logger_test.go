// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/statindo/statindo/internal/models"
)

// memStore collects inserted entries for assertions.
type memStore struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (s *memStore) InsertActivity(_ context.Context, entry *models.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestLoggerWritesEntries(t *testing.T) {
	store := &memStore{}
	logger := NewLogger(store, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- logger.Serve(ctx) }()

	logger.Record(&models.ActivityEntry{UserID: 1, UserEmail: "a@statindo.id", Action: "login", Resource: "auth"})
	logger.Record(&models.ActivityEntry{UserID: 2, UserEmail: "b@statindo.id", Action: "export", Resource: "indicators"})

	deadline := time.After(2 * time.Second)
	for store.len() < 2 {
		select {
		case <-deadline:
			t.Fatalf("entries not written, have %d", store.len())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, e := range store.entries {
		if e.ID == "" {
			t.Error("entry written without an id")
		}
		if e.CreatedAt.IsZero() {
			t.Error("entry written without a timestamp")
		}
	}
}

func TestLoggerFlushesOnShutdown(t *testing.T) {
	store := &memStore{}
	logger := NewLogger(store, 10)

	// Queue before Serve starts so everything sits in the buffer.
	for i := 0; i < 5; i++ {
		logger.Record(&models.ActivityEntry{UserID: int64(i), Action: "read", Resource: "indicators"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = logger.Serve(ctx)

	if got := store.len(); got != 5 {
		t.Errorf("flush wrote %d entries, want 5", got)
	}
}

func TestLoggerDropsWhenFull(t *testing.T) {
	store := &memStore{}
	logger := NewLogger(store, 1)

	// No Serve loop running; the second record must drop, not block.
	logger.Record(&models.ActivityEntry{Action: "login", Resource: "auth"})

	donec := make(chan struct{})
	go func() {
		logger.Record(&models.ActivityEntry{Action: "login", Resource: "auth"})
		close(donec)
	}()

	select {
	case <-donec:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	if logger.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", logger.Dropped())
	}
}

func TestLoggerIgnoresNil(t *testing.T) {
	logger := NewLogger(&memStore{}, 1)
	logger.Record(nil)
	if logger.Dropped() != 0 {
		t.Errorf("nil entry counted as drop")
	}
}
