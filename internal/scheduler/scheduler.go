// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: event-log pruning
// and search index rebuilds.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/mdcms-go/internal/disk"
	"github.com/olegiv/mdcms-go/internal/page"
	"github.com/olegiv/mdcms-go/internal/search"
	"github.com/olegiv/mdcms-go/internal/service"
)

// Scheduler handles the periodic maintenance jobs.
type Scheduler struct {
	events    *service.EventService
	pages     *page.Store
	disks     *disk.Manager
	index     *search.Index
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// New creates a scheduler instance.
func New(events *service.EventService, pages *page.Store, disks *disk.Manager, index *search.Index, retention time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		events:    events,
		pages:     pages,
		disks:     disks,
		index:     index,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the jobs and begins the scheduler. Events are pruned
// hourly; the search index is rebuilt nightly to repair any drift between
// the index and the disks.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", func() {
		if err := s.pruneEvents(); err != nil {
			s.logger.Error("failed to prune events", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.reindexPages(); err != nil {
			s.logger.Error("failed to reindex pages", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneEvents removes event log rows older than the retention window.
func (s *Scheduler) pruneEvents() error {
	return s.events.Prune(context.Background(), s.retention)
}

// reindexPages rebuilds the search index from every configured disk.
func (s *Scheduler) reindexPages() error {
	ctx := context.Background()
	start := time.Now()

	for _, name := range s.disks.Names() {
		d, err := s.disks.Get(name)
		if err != nil {
			return err
		}
		pages, err := s.pages.GetAll(ctx, d)
		if err != nil {
			return err
		}
		if err := s.index.IndexAll(name, pages); err != nil {
			return err
		}
	}

	count, _ := s.index.Count()
	s.logger.Info("rebuilt search index",
		"documents", count,
		"duration", time.Since(start))
	return nil
}
