// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package models

import "time"

// ActivityEntry is one row of the activity log. Entries for data mutations
// are written in the same transaction as the mutation; request-level
// entries are written asynchronously and may be dropped under load.
type ActivityEntry struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Category   string    `json:"category,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	SourceIP   string    `json:"source_ip,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityFilter narrows activity log queries.
type ActivityFilter struct {
	UserID   int64
	Action   string
	Resource string
	Since    *time.Time
	Until    *time.Time
	Limit    int
	Offset   int
}
