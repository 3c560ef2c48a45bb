// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/mdcms-go/internal/model"
)

// Key builders for the page/revision cache entries. The cache is never the
// source of truth: every entry is derivable by re-reading the page or
// revision store.
func PageKey(disk, filename string) string { return fmt.Sprintf("page_%s:%s", disk, filename) }
func ListKey(disk string) string { return "pages_list_" + disk }
func RevisionKey(id int64) string { return fmt.Sprintf("revision_%d", id) }
func LatestRevisionKey(filename string) string { return "latest_revision_" + filename }
func RevisionsListKey(filename string) string { return "revisions_list_" + filename }

// PageCache provides typed access to cached pages and revisions over a
// shared backend.
type PageCache struct {
	backend Cacher

	pages    *Typed[model.Page]
	lists    *Typed[[]model.Page]
	revision *Typed[model.PageRevision]
	history  *Typed[[]model.PageRevision]
}

// NewPageCache creates a page cache with the given positive-entry TTL.
func NewPageCache(backend Cacher, ttl time.Duration) *PageCache {
	return &PageCache{
		backend:  backend,
		pages:    NewTyped[model.Page](backend, ttl),
		lists:    NewTyped[[]model.Page](backend, ttl),
		revision: NewTyped[model.PageRevision](backend, ttl),
		history:  NewTyped[[]model.PageRevision](backend, ttl),
	}
}

// GetPage returns a cached page, or nil on miss.
func (c *PageCache) GetPage(ctx context.Context, disk, filename string) *model.Page {
	p, _ := c.pages.Get(ctx, PageKey(disk, filename))
	return p
}

// SetPage populates the page entry.
func (c *PageCache) SetPage(ctx context.Context, disk string, p *model.Page) error {
	return c.pages.Set(ctx, PageKey(disk, p.Filename), p)
}

// ForgetPage invalidates the page entry.
func (c *PageCache) ForgetPage(ctx context.Context, disk, filename string) error {
	return c.pages.Delete(ctx, PageKey(disk, filename))
}

// GetOrSetList reads the page list through the cache.
func (c *PageCache) GetOrSetList(ctx context.Context, disk string, fn func() ([]model.Page, error)) ([]model.Page, error) {
	result, err := c.lists.GetOrSet(ctx, ListKey(disk), func() (*[]model.Page, error) {
		pages, err := fn()
		if err != nil {
			return nil, err
		}
		return &pages, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// ForgetList invalidates the page list for a disk.
func (c *PageCache) ForgetList(ctx context.Context, disk string) error {
	return c.lists.Delete(ctx, ListKey(disk))
}

// SetRevision populates the per-revision entry.
func (c *PageCache) SetRevision(ctx context.Context, rev *model.PageRevision) error {
	return c.revision.Set(ctx, RevisionKey(rev.ID), rev)
}

// GetRevision returns a cached revision, or nil on miss.
func (c *PageCache) GetRevision(ctx context.Context, id int64) *model.PageRevision {
	rev, _ := c.revision.Get(ctx, RevisionKey(id))
	return rev
}

// SetLatestRevision populates the latest-revision entry for a filename.
func (c *PageCache) SetLatestRevision(ctx context.Context, rev *model.PageRevision) error {
	return c.revision.Set(ctx, LatestRevisionKey(rev.Filename), rev)
}

// GetLatestRevision returns the cached latest revision, or nil on miss.
func (c *PageCache) GetLatestRevision(ctx context.Context, filename string) *model.PageRevision {
	rev, _ := c.revision.Get(ctx, LatestRevisionKey(filename))
	return rev
}

// GetOrSetHistory reads a revision history through the cache.
func (c *PageCache) GetOrSetHistory(ctx context.Context, filename string, fn func() ([]model.PageRevision, error)) ([]model.PageRevision, error) {
	result, err := c.history.GetOrSet(ctx, RevisionsListKey(filename), func() (*[]model.PageRevision, error) {
		revs, err := fn()
		if err != nil {
			return nil, err
		}
		return &revs, nil
	})
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// ForgetHistory invalidates the revision history for a filename.
func (c *PageCache) ForgetHistory(ctx context.Context, filename string) error {
	return c.history.Delete(ctx, RevisionsListKey(filename))
}

// Backend returns the underlying Cacher, for stats and shutdown.
func (c *PageCache) Backend() Cacher {
	return c.backend
}
