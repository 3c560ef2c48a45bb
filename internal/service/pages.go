// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/olegiv/mdcms-go/internal/cache"
	"github.com/olegiv/mdcms-go/internal/disk"
	"github.com/olegiv/mdcms-go/internal/errs"
	"github.com/olegiv/mdcms-go/internal/event"
	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/page"
	"github.com/olegiv/mdcms-go/internal/revision"
	"github.com/olegiv/mdcms-go/internal/util"
)

// PageService orchestrates page mutations: filename sanitization, disk
// resolution, storage writes, revision append, and event publication.
//
// After a committed create or update, a revision append failure never rolls
// back the storage write: the page mutation is the primary operation, and a
// gap in the revision log is reported at error level. A delete is different:
// the delete revision is the only surviving copy of the content, so a failed
// snapshot aborts the delete before the file is touched.
type PageService struct {
	disks     *disk.Manager
	pages     *page.Store
	revisions *revision.Store
	cache     *cache.PageCache
	bus       *event.Bus
	logger    *slog.Logger
}

// NewPageService creates a page service.
func NewPageService(disks *disk.Manager, pages *page.Store, revisions *revision.Store, pageCache *cache.PageCache, bus *event.Bus, logger *slog.Logger) *PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{
		disks:     disks,
		pages:     pages,
		revisions: revisions,
		cache:     pageCache,
		bus:       bus,
		logger:    logger,
	}
}

// List returns all pages on the named disk, served from the list cache
// when warm.
func (s *PageService) List(ctx context.Context, diskName string) ([]model.Page, error) {
	d, err := s.disks.Get(diskName)
	if err != nil {
		return nil, err
	}
	return s.cache.GetOrSetList(ctx, d.Name(), func() ([]model.Page, error) {
		return s.pages.GetAll(ctx, d)
	})
}

// Get returns a single page by raw filename, or a NotFound error. Cache
// hits skip the disk entirely; misses repopulate the page entry.
func (s *PageService) Get(ctx context.Context, diskName, rawFilename string) (*model.Page, error) {
	d, err := s.disks.Get(diskName)
	if err != nil {
		return nil, err
	}
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return nil, err
	}

	if p := s.cache.GetPage(ctx, d.Name(), filename); p != nil {
		return p, nil
	}

	p, err := s.pages.GetByFilename(ctx, d, filename)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound(filename)
	}
	if err := s.cache.SetPage(ctx, d.Name(), p); err != nil {
		s.logger.Warn("failed to cache page", "filename", filename, "error", err)
	}
	return p, nil
}

// Create writes a new page, appends a create revision, and publishes
// page.created and revision.created.
func (s *PageService) Create(ctx context.Context, diskName, rawFilename, markdown string, tiptap json.RawMessage) (*model.Page, error) {
	d, err := s.disks.Get(diskName)
	if err != nil {
		return nil, err
	}
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return nil, err
	}

	p, err := s.pages.Create(ctx, d, filename, markdown, tiptap)
	if err != nil {
		return nil, err
	}

	ev := event.NewEvent(event.TypePageCreated)
	ev.Disk = d.Name()
	ev.Page = p
	s.bus.Publish(ctx, ev)

	s.appendRevision(ctx, p, model.RevisionTypeCreate)
	return p, nil
}

// Update overwrites an existing page, appends an update revision, and
// publishes page.updated and revision.created.
func (s *PageService) Update(ctx context.Context, diskName, rawFilename, markdown string, tiptap json.RawMessage) (*model.Page, error) {
	d, err := s.disks.Get(diskName)
	if err != nil {
		return nil, err
	}
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return nil, err
	}

	p, err := s.pages.Update(ctx, d, filename, markdown, tiptap)
	if err != nil {
		return nil, err
	}

	ev := event.NewEvent(event.TypePageUpdated)
	ev.Disk = d.Name()
	ev.Page = p
	s.bus.Publish(ctx, ev)

	s.appendRevision(ctx, p, model.RevisionTypeUpdate)
	return p, nil
}

// Delete snapshots the page content, appends a delete revision carrying
// the last known content, removes the page, and publishes page.deleted.
func (s *PageService) Delete(ctx context.Context, diskName, rawFilename string) error {
	d, err := s.disks.Get(diskName)
	if err != nil {
		return err
	}
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return err
	}

	snapshot, err := s.pages.GetByFilename(ctx, d, filename)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return errs.NotFound(filename)
	}

	// The delete revision preserves the final content, so it must land
	// before the file disappears. Unlike create/update, nothing has been
	// committed yet, so a failed snapshot aborts the delete.
	if err := s.recordRevision(ctx, snapshot, model.RevisionTypeDelete); err != nil {
		return fmt.Errorf("snapshotting page %q before delete: %w", filename, err)
	}

	if err := s.pages.Delete(ctx, d, filename); err != nil {
		return err
	}

	ev := event.NewEvent(event.TypePageDeleted)
	ev.Disk = d.Name()
	ev.Page = snapshot
	s.bus.Publish(ctx, ev)
	return nil
}

// GetRevision returns a revision by ID, or a NotFound error.
func (s *PageService) GetRevision(ctx context.Context, id int64) (*model.PageRevision, error) {
	if rev := s.cache.GetRevision(ctx, id); rev != nil {
		return rev, nil
	}
	rev, err := s.revisions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, errs.NotFoundID(id)
	}
	if err := s.cache.SetRevision(ctx, rev); err != nil {
		s.logger.Warn("failed to cache revision", "revision_id", id, "error", err)
	}
	return rev, nil
}

// LatestRevision returns the most recent revision for a raw filename, or
// a NotFound error when the filename has no history.
func (s *PageService) LatestRevision(ctx context.Context, rawFilename string) (*model.PageRevision, error) {
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return nil, err
	}

	if rev := s.cache.GetLatestRevision(ctx, filename); rev != nil {
		return rev, nil
	}
	rev, err := s.revisions.Latest(ctx, filename)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, errs.NotFound(filename)
	}
	if err := s.cache.SetLatestRevision(ctx, rev); err != nil {
		s.logger.Warn("failed to cache latest revision", "filename", filename, "error", err)
	}
	return rev, nil
}

// RevisionHistory returns the full revision history for a raw filename,
// chronological ascending. An empty history is not an error.
func (s *PageService) RevisionHistory(ctx context.Context, rawFilename string) ([]model.PageRevision, error) {
	filename, err := util.SanitizeFilename(rawFilename)
	if err != nil {
		return nil, err
	}
	return s.cache.GetOrSetHistory(ctx, filename, func() ([]model.PageRevision, error) {
		return s.revisions.History(ctx, filename)
	})
}

// DiskNames returns the configured disk names.
func (s *PageService) DiskNames() []string {
	return s.disks.Names()
}

// appendRevision records a revision after an already-committed create or
// update. Failures are logged, never propagated: the page mutation stands
// even when the audit trail has a gap.
func (s *PageService) appendRevision(ctx context.Context, p *model.Page, revisionType string) {
	if err := s.recordRevision(ctx, p, revisionType); err != nil {
		s.logger.Error("failed to append page revision",
			"filename", p.Filename,
			"revision_type", revisionType,
			"error", err)
	}
}

// recordRevision writes a revision row and publishes revision.created.
func (s *PageService) recordRevision(ctx context.Context, p *model.Page, revisionType string) error {
	rev, err := s.revisions.Create(ctx, p.Filename, p.MarkdownContent, p.HTMLContent, p.TiptapJSON, revisionType)
	if err != nil {
		return err
	}

	ev := event.NewEvent(event.TypeRevisionCreated)
	ev.Revision = rev
	s.bus.Publish(ctx, ev)
	return nil
}
