// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package revision

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/testutil"
)

func TestStoreCreate(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewStore(db)
	ctx := context.Background()

	t.Run("defaults to update type", func(t *testing.T) {
		rev, err := s.Create(ctx, "page.md", "content", "<p>content</p>", nil, "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if rev.RevisionType != model.RevisionTypeUpdate {
			t.Errorf("RevisionType = %q, want %q", rev.RevisionType, model.RevisionTypeUpdate)
		}
		if rev.ID == 0 {
			t.Error("ID not assigned")
		}
	})

	t.Run("stores tiptap json", func(t *testing.T) {
		tiptap := json.RawMessage(`{"type":"doc"}`)
		rev, err := s.Create(ctx, "rich.md", "md", "html", tiptap, model.RevisionTypeCreate)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if string(rev.TiptapJSON) != string(tiptap) {
			t.Errorf("TiptapJSON = %s, want %s", rev.TiptapJSON, tiptap)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		if _, err := s.Create(ctx, "page.md", "md", "html", nil, "merge"); err == nil {
			t.Error("Create with unknown type succeeded, want error")
		}
	})
}

func TestStoreHistory(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewStore(db)
	ctx := context.Background()

	types := []string{
		model.RevisionTypeCreate,
		model.RevisionTypeUpdate,
		model.RevisionTypeUpdate,
		model.RevisionTypeDelete,
	}
	for i, revType := range types {
		if _, err := s.Create(ctx, "page.md", "v"+string(rune('1'+i)), "html", nil, revType); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}
	// History for a different filename must stay separate.
	if _, err := s.Create(ctx, "other.md", "x", "html", nil, model.RevisionTypeCreate); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	history, err := s.History(ctx, "page.md")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != len(types) {
		t.Fatalf("History = %d revisions, want %d", len(history), len(types))
	}
	for i, rev := range history {
		if rev.RevisionType != types[i] {
			t.Errorf("history[%d].RevisionType = %q, want %q", i, rev.RevisionType, types[i])
		}
		if i > 0 {
			prev := history[i-1]
			if rev.CreatedAt.Before(prev.CreatedAt) {
				t.Errorf("history[%d] created before history[%d]", i, i-1)
			}
			if !rev.CreatedAt.After(prev.CreatedAt) && rev.ID < prev.ID {
				t.Errorf("history[%d] ID regressed at equal timestamps", i)
			}
		}
	}
}

func TestStoreLatest(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewStore(db)
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		rev, err := s.Latest(ctx, "missing.md")
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if rev != nil {
			t.Errorf("Latest = %+v, want nil", rev)
		}
	})

	t.Run("returns most recent", func(t *testing.T) {
		for _, content := range []string{"v1", "v2", "v3"} {
			if _, err := s.Create(ctx, "page.md", content, "html", nil, model.RevisionTypeUpdate); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		rev, err := s.Latest(ctx, "page.md")
		if err != nil {
			t.Fatalf("Latest: %v", err)
		}
		if rev == nil || rev.MarkdownContent != "v3" {
			t.Errorf("Latest content = %v, want v3", rev)
		}
	})
}

func TestStoreGetByID(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewStore(db)
	ctx := context.Background()

	created, err := s.Create(ctx, "page.md", "content", "html", nil, model.RevisionTypeCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != created.ID || got.MarkdownContent != "content" {
		t.Errorf("GetByID = %+v, want created revision", got)
	}

	missing, err := s.GetByID(ctx, created.ID+1000)
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID missing = %+v, want nil", missing)
	}
}

func TestStoreHasAny(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := NewStore(db)
	ctx := context.Background()

	has, err := s.HasAny(ctx, "page.md")
	if err != nil || has {
		t.Errorf("HasAny before create = %v, %v; want false, nil", has, err)
	}

	if _, err := s.Create(ctx, "page.md", "x", "html", nil, model.RevisionTypeCreate); err != nil {
		t.Fatalf("Create: %v", err)
	}

	has, err = s.HasAny(ctx, "page.md")
	if err != nil || !has {
		t.Errorf("HasAny after create = %v, %v; want true, nil", has, err)
	}
}
