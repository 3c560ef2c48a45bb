// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"

	"github.com/olegiv/mdcms-go/internal/event"
)

// Listener keeps the page cache coherent with page and revision mutations.
//
// On page.created the new page is cached and the list entry for its disk is
// forgotten so the next listing rebuilds it. On page.updated only the page
// entry is refreshed in place. On page.deleted both the page entry and the
// list are forgotten. On revision.created the revision and latest-revision
// entries are populated and the revision history list is forgotten.
type Listener struct {
	cache  *PageCache
	logger *slog.Logger
}

// NewListener creates a cache listener.
func NewListener(cache *PageCache, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{cache: cache, logger: logger}
}

// Name identifies the listener in bus logs.
func (l *Listener) Name() string { return "cache" }

// Handle applies an event to the cache. Cache write failures are returned
// so the bus can log them; they never affect the originating mutation.
func (l *Listener) Handle(ctx context.Context, e *event.Event) error {
	switch e.Type {
	case event.TypePageCreated:
		if e.Page == nil {
			return nil
		}
		if err := l.cache.SetPage(ctx, e.Disk, e.Page); err != nil {
			return err
		}
		return l.cache.ForgetList(ctx, e.Disk)

	case event.TypePageUpdated:
		if e.Page == nil {
			return nil
		}
		return l.cache.SetPage(ctx, e.Disk, e.Page)

	case event.TypePageDeleted:
		if e.Page == nil {
			return nil
		}
		if err := l.cache.ForgetPage(ctx, e.Disk, e.Page.Filename); err != nil {
			return err
		}
		return l.cache.ForgetList(ctx, e.Disk)

	case event.TypeRevisionCreated:
		if e.Revision == nil {
			return nil
		}
		if err := l.cache.SetRevision(ctx, e.Revision); err != nil {
			return err
		}
		if err := l.cache.SetLatestRevision(ctx, e.Revision); err != nil {
			return err
		}
		return l.cache.ForgetHistory(ctx, e.Revision.Filename)

	default:
		l.logger.Debug("cache listener ignoring event", "event_type", e.Type)
		return nil
	}
}
