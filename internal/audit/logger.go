// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package audit records request-level activity asynchronously.
//
// Mutations on indicators, data points, articles and FAQs do NOT go
// through this package; their log rows are written by the database layer
// inside the mutation's own transaction. This logger covers the
// fire-and-forget rest: logins, logouts, exports, reads worth recording.
// A full buffer drops the entry and increments a counter; activity logging
// never slows or fails a request.
package audit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/statindo/statindo/internal/logging"
	"github.com/statindo/statindo/internal/metrics"
	"github.com/statindo/statindo/internal/models"
)

// Store persists activity entries.
type Store interface {
	InsertActivity(ctx context.Context, entry *models.ActivityEntry) error
}

// Logger buffers entries and writes them on a background goroutine. It
// implements suture.Service; run it under the process supervisor.
type Logger struct {
	store   Store
	entries chan *models.ActivityEntry
	dropped atomic.Int64
}

// writeTimeout bounds a single store write so one slow insert cannot
// stall the drain loop.
const writeTimeout = 5 * time.Second

// NewLogger creates an activity logger with the given buffer capacity.
func NewLogger(store Store, bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &Logger{
		store:   store,
		entries: make(chan *models.ActivityEntry, bufferSize),
	}
}

// Record queues an entry without blocking. Entries are stamped with an id
// and timestamp here so a drop is still observable in the drop counter.
func (l *Logger) Record(entry *models.ActivityEntry) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	select {
	case l.entries <- entry:
	default:
		dropped := l.dropped.Add(1)
		metrics.ActivityDropped.Inc()
		logging.Warn().Int64("dropped_total", dropped).
			Str("action", entry.Action).
			Msg("Activity buffer full, entry dropped")
	}
}

// Dropped returns how many entries have been discarded since start.
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

// Serve drains the buffer until ctx is canceled, then flushes whatever is
// still queued. Implements suture.Service.
func (l *Logger) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.flush()
			return ctx.Err()
		case entry := <-l.entries:
			l.write(entry)
		}
	}
}

// flush writes the remaining buffered entries.
func (l *Logger) flush() {
	for {
		select {
		case entry := <-l.entries:
			l.write(entry)
		default:
			return
		}
	}
}

// write persists one entry; failures are logged and forgotten.
func (l *Logger) write(entry *models.ActivityEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := l.store.InsertActivity(ctx, entry); err != nil {
		logging.Err(err).Str("action", entry.Action).Msg("Failed to persist activity entry")
	}
}

// String names the service in supervisor logs.
func (l *Logger) String() string {
	return "audit.logger"
}

// Pruner deletes activity rows past the retention window. It implements
// suture.Service and runs one pass per day.
type Pruner struct {
	store         PruneStore
	retentionDays int
}

// PruneStore is the deletion slice of the database layer.
type PruneStore interface {
	PruneActivity(ctx context.Context, olderThan time.Time) (int64, error)
}

// NewPruner creates a retention pruner. retentionDays <= 0 disables it;
// Serve then just waits for cancellation.
func NewPruner(store PruneStore, retentionDays int) *Pruner {
	return &Pruner{store: store, retentionDays: retentionDays}
}

// Serve prunes daily until ctx is canceled.
func (p *Pruner) Serve(ctx context.Context) error {
	if p.retentionDays <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -p.retentionDays)
			deleted, err := p.store.PruneActivity(ctx, cutoff)
			if err != nil {
				logging.Err(err).Msg("Activity prune pass failed")
				continue
			}
			if deleted > 0 {
				logging.Info().Int64("deleted", deleted).Msg("Pruned activity entries")
			}
		}
	}
}

// String names the service in supervisor logs.
func (p *Pruner) String() string {
	return "audit.pruner"
}
