// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package revision implements the append-only page revision log.
package revision

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/store"
)

// Store appends and reads page revisions. Revisions are immutable: they
// are never updated or reordered after insertion.
type Store struct {
	queries *store.Queries
}

// NewStore creates a revision store.
func NewStore(db *sql.DB) *Store {
	return &Store{queries: store.New(db)}
}

// Create appends a revision. For create/update revisions the content is the
// post-mutation state; for delete revisions it is the last known content
// before removal.
func (s *Store) Create(ctx context.Context, filename, markdown, html string, tiptap json.RawMessage, revisionType string) (*model.PageRevision, error) {
	if revisionType == "" {
		revisionType = model.RevisionTypeUpdate
	}
	if !model.ValidRevisionType(revisionType) {
		return nil, fmt.Errorf("invalid revision type %q", revisionType)
	}

	var tiptapNull sql.NullString
	if len(tiptap) > 0 {
		tiptapNull = sql.NullString{String: string(tiptap), Valid: true}
	}

	now := time.Now()
	row, err := s.queries.CreateRevision(ctx, store.CreateRevisionParams{
		Filename:        filename,
		MarkdownContent: markdown,
		HTMLContent:     html,
		TiptapJSON:      tiptapNull,
		RevisionType:    revisionType,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating revision for %q: %w", filename, err)
	}

	rev := rowToRevision(row)
	return &rev, nil
}

// GetByID returns a revision, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*model.PageRevision, error) {
	row, err := s.queries.GetRevisionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rev := rowToRevision(row)
	return &rev, nil
}

// Latest returns the most recent revision for a filename, or nil when the
// filename has no history.
func (s *Store) Latest(ctx context.Context, filename string) (*model.PageRevision, error) {
	row, err := s.queries.GetLatestRevisionByFilename(ctx, filename)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rev := rowToRevision(row)
	return &rev, nil
}

// History returns all revisions for a filename, chronological ascending
// (created_at, then id as tiebreak).
func (s *Store) History(ctx context.Context, filename string) ([]model.PageRevision, error) {
	rows, err := s.queries.ListRevisionsByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}

	revisions := make([]model.PageRevision, 0, len(rows))
	for _, row := range rows {
		revisions = append(revisions, rowToRevision(row))
	}
	return revisions, nil
}

// HasAny reports whether any revision exists for a filename.
func (s *Store) HasAny(ctx context.Context, filename string) (bool, error) {
	n, err := s.queries.CountRevisionsByFilename(ctx, filename)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func rowToRevision(row store.PageRevision) model.PageRevision {
	rev := model.PageRevision{
		ID:              row.ID,
		Filename:        row.Filename,
		MarkdownContent: row.MarkdownContent,
		HTMLContent:     row.HTMLContent,
		RevisionType:    row.RevisionType,
		CreatedAt:       row.CreatedAt,
	}
	if row.TiptapJSON.Valid {
		rev.TiptapJSON = json.RawMessage(row.TiptapJSON.String)
	}
	return rev
}
