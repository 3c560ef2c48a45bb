// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains the application services that orchestrate
// stores, caches, and the event bus.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/mdcms-go/internal/event"
	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/store"
)

// EventService writes rows to the persistent event log.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates an event log service.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{queries: store.New(db), logger: logger}
}

// Log records an event. Metadata is serialized to JSON; a nil map stores
// an empty object.
func (s *EventService) Log(ctx context.Context, level, category, message string, metadata map[string]any) error {
	meta := "{}"
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.logger.Warn("failed to serialize event metadata", "error", err)
		} else {
			meta = string(raw)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  meta,
		CreatedAt: time.Now(),
	})
	return err
}

// LogInfo records an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelInfo, category, message, metadata)
}

// LogError records an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, metadata map[string]any) error {
	return s.Log(ctx, model.EventLevelError, category, message, metadata)
}

// Prune deletes events older than the retention window.
func (s *EventService) Prune(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().Add(-retention)
	if err := s.queries.DeleteOldEvents(ctx, cutoff); err != nil {
		return err
	}
	s.logger.Info("pruned old events", "cutoff", cutoff)
	return nil
}

// Count returns the total number of event log rows.
func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.queries.CountEvents(ctx)
}

// AuditListener mirrors bus events into the persistent event log.
type AuditListener struct {
	events *EventService
}

// NewAuditListener creates an audit listener.
func NewAuditListener(events *EventService) *AuditListener {
	return &AuditListener{events: events}
}

// Name identifies the listener in bus logs.
func (l *AuditListener) Name() string { return "audit" }

// Handle records one event log row per bus event.
func (l *AuditListener) Handle(ctx context.Context, e *event.Event) error {
	meta := map[string]any{"event_id": e.ID}
	category := model.EventCategoryPage

	switch e.Type {
	case event.TypePageCreated, event.TypePageUpdated, event.TypePageDeleted:
		if e.Page != nil {
			meta["filename"] = e.Page.Filename
		}
		meta["disk"] = e.Disk
	case event.TypeRevisionCreated:
		category = model.EventCategoryRevision
		if e.Revision != nil {
			meta["filename"] = e.Revision.Filename
			meta["revision_id"] = e.Revision.ID
			meta["revision_type"] = e.Revision.RevisionType
		}
	default:
		category = model.EventCategorySystem
	}

	return l.events.LogInfo(ctx, category, e.Type, meta)
}
