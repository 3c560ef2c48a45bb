// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the database tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Event is an events table row.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEventParams holds the parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `
INSERT INTO events (level, category, message, metadata, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, level, category, message, metadata, created_at
`

// CreateEvent inserts an event log row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	var e Event
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt)
	return e, err
}

const deleteOldEvents = `
DELETE FROM events WHERE created_at < ?
`

// DeleteOldEvents removes events created before the cutoff.
func (q *Queries) DeleteOldEvents(ctx context.Context, cutoff time.Time) error {
	_, err := q.db.ExecContext(ctx, deleteOldEvents, cutoff)
	return err
}

const countEvents = `
SELECT COUNT(*) FROM events
`

// CountEvents returns the number of event log rows.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countEvents).Scan(&n)
	return n, err
}

// PageRevision is a page_revisions table row.
type PageRevision struct {
	ID              int64
	Filename        string
	MarkdownContent string
	HTMLContent     string
	TiptapJSON      sql.NullString
	RevisionType    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateRevisionParams holds the parameters for CreateRevision.
type CreateRevisionParams struct {
	Filename        string
	MarkdownContent string
	HTMLContent     string
	TiptapJSON      sql.NullString
	RevisionType    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const createRevision = `
INSERT INTO page_revisions (filename, markdown_content, html_content, tiptap_json, revision_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, filename, markdown_content, html_content, tiptap_json, revision_type, created_at, updated_at
`

// CreateRevision appends a revision row. Revisions are never updated.
func (q *Queries) CreateRevision(ctx context.Context, arg CreateRevisionParams) (PageRevision, error) {
	row := q.db.QueryRowContext(ctx, createRevision,
		arg.Filename, arg.MarkdownContent, arg.HTMLContent, arg.TiptapJSON,
		arg.RevisionType, arg.CreatedAt, arg.UpdatedAt)
	return scanRevision(row)
}

const getRevisionByID = `
SELECT id, filename, markdown_content, html_content, tiptap_json, revision_type, created_at, updated_at
FROM page_revisions
WHERE id = ?
`

// GetRevisionByID fetches a single revision.
func (q *Queries) GetRevisionByID(ctx context.Context, id int64) (PageRevision, error) {
	row := q.db.QueryRowContext(ctx, getRevisionByID, id)
	return scanRevision(row)
}

const getLatestRevisionByFilename = `
SELECT id, filename, markdown_content, html_content, tiptap_json, revision_type, created_at, updated_at
FROM page_revisions
WHERE filename = ?
ORDER BY created_at DESC, id DESC
LIMIT 1
`

// GetLatestRevisionByFilename fetches the most recent revision for a filename.
func (q *Queries) GetLatestRevisionByFilename(ctx context.Context, filename string) (PageRevision, error) {
	row := q.db.QueryRowContext(ctx, getLatestRevisionByFilename, filename)
	return scanRevision(row)
}

const listRevisionsByFilename = `
SELECT id, filename, markdown_content, html_content, tiptap_json, revision_type, created_at, updated_at
FROM page_revisions
WHERE filename = ?
ORDER BY created_at ASC, id ASC
`

// ListRevisionsByFilename returns the full history for a filename,
// chronological ascending.
func (q *Queries) ListRevisionsByFilename(ctx context.Context, filename string) ([]PageRevision, error) {
	rows, err := q.db.QueryContext(ctx, listRevisionsByFilename, filename)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []PageRevision
	for rows.Next() {
		var r PageRevision
		if err := rows.Scan(&r.ID, &r.Filename, &r.MarkdownContent, &r.HTMLContent,
			&r.TiptapJSON, &r.RevisionType, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

const countRevisionsByFilename = `
SELECT COUNT(*) FROM page_revisions WHERE filename = ?
`

// CountRevisionsByFilename returns the number of revisions for a filename.
func (q *Queries) CountRevisionsByFilename(ctx context.Context, filename string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRevisionsByFilename, filename).Scan(&n)
	return n, err
}

// rowScanner covers *sql.Row for scanRevision.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevision(row rowScanner) (PageRevision, error) {
	var r PageRevision
	err := row.Scan(&r.ID, &r.Filename, &r.MarkdownContent, &r.HTMLContent,
		&r.TiptapJSON, &r.RevisionType, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
