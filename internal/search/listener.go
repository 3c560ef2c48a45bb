// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package search

import (
	"context"

	"github.com/olegiv/mdcms-go/internal/event"
)

// Listener keeps the search index in step with page mutations.
type Listener struct {
	index *Index
}

// NewListener creates a search listener.
func NewListener(index *Index) *Listener {
	return &Listener{index: index}
}

// Name identifies the listener in bus logs.
func (l *Listener) Name() string { return "search" }

// Handle indexes created and updated pages and drops deleted ones.
// Revision events carry no disk context, so they are ignored here.
func (l *Listener) Handle(ctx context.Context, e *event.Event) error {
	if e.Page == nil {
		return nil
	}

	switch e.Type {
	case event.TypePageCreated, event.TypePageUpdated:
		return l.index.IndexPage(e.Disk, e.Page)
	case event.TypePageDeleted:
		return l.index.DeletePage(e.Disk, e.Page.Filename)
	default:
		return nil
	}
}
