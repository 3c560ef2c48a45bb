// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/mdcms-go/internal/event"
	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/testutil"
)

func TestEventServiceLog(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewEventService(db, testutil.TestLogger())
	ctx := context.Background()

	if err := s.LogInfo(ctx, model.EventCategoryPage, "page created", map[string]any{"filename": "a.md"}); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}
	if err := s.LogError(ctx, model.EventCategorySystem, "something broke", nil); err != nil {
		t.Fatalf("LogError: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestEventServicePrune(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewEventService(db, testutil.TestLogger())
	ctx := context.Background()

	if err := s.LogInfo(ctx, model.EventCategorySystem, "recent event", nil); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}

	// A retention window longer than the event's age keeps it.
	if err := s.Prune(ctx, time.Hour); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count after lenient prune = %d, want 1", count)
	}

	// A zero retention window prunes everything written so far.
	time.Sleep(5 * time.Millisecond)
	if err := s.Prune(ctx, 0); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	count, err = s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("Count after zero-retention prune = %d, want 0", count)
	}
}

func TestAuditListenerRecordsEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewEventService(db, testutil.TestLogger())
	l := NewAuditListener(s)
	ctx := context.Background()

	e := event.NewEvent(event.TypePageCreated)
	e.Disk = "pages"
	e.Page = &model.Page{Filename: "a.md"}
	if err := l.Handle(ctx, e); err != nil {
		t.Fatalf("Handle page event: %v", err)
	}

	e = event.NewEvent(event.TypeRevisionCreated)
	e.Revision = &model.PageRevision{ID: 1, Filename: "a.md", RevisionType: model.RevisionTypeCreate}
	if err := l.Handle(ctx, e); err != nil {
		t.Fatalf("Handle revision event: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want one row per bus event", count)
	}
}
