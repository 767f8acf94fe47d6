// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const eventColumns = `id, level, category, message, user_id, metadata, ip_address, created_at`

// CreateEventParams holds the fields for a new event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	IPAddress string
	CreatedAt time.Time
}

// CreateEvent inserts a new event log entry and returns the stored record.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+eventColumns,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.IPAddress, arg.CreatedAt)

	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.IPAddress, &e.CreatedAt)
	return e, err
}

// ListEventsParams holds pagination parameters for listing events.
type ListEventsParams struct {
	Limit  int64
	Offset int64
}

// ListEvents returns event log entries, newest first.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEventsBefore removes events created before the cutoff time.
// Returns the number of rows deleted.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
