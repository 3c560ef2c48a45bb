// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package page implements file-backed page storage on top of a disk.
package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olegiv/mdcms-go/internal/disk"
	"github.com/olegiv/mdcms-go/internal/errs"
	"github.com/olegiv/mdcms-go/internal/model"
	"github.com/olegiv/mdcms-go/internal/util"
)

// HTMLRenderer is the markdown-conversion collaborator used to recompute
// a page's HTML projection on every write.
type HTMLRenderer interface {
	ToHTML(markdown string) (string, error)
}

// Store provides page CRUD against an explicitly selected disk. The same
// filename may exist independently on different disks.
type Store struct {
	renderer HTMLRenderer
}

// NewStore creates a page store using the given renderer.
func NewStore(renderer HTMLRenderer) *Store {
	return &Store{renderer: renderer}
}

// sidecar holds the derived projections stored next to the markdown file.
// The markdown file stays the source of truth; the sidecar can always be
// rebuilt from it.
type sidecar struct {
	HTMLContent string          `json:"html_content"`
	TiptapJSON  json.RawMessage `json:"tiptap_json,omitempty"`
}

// sidecarName maps "hello.md" to "hello.json".
func sidecarName(filename string) string {
	return strings.TrimSuffix(filename, util.PageExtension) + ".json"
}

// GetAll enumerates all pages on the disk. Order is not guaranteed stable
// across backends; callers needing order must sort explicitly.
func (s *Store) GetAll(ctx context.Context, d disk.Disk) ([]model.Page, error) {
	names, err := d.List(ctx, util.PageExtension)
	if err != nil {
		return nil, fmt.Errorf("listing pages on disk %q: %w", d.Name(), err)
	}

	pages := make([]model.Page, 0, len(names))
	for _, name := range names {
		p, err := s.read(ctx, d, name)
		if err != nil {
			// A file removed between List and Read is not an error.
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		pages = append(pages, *p)
	}
	return pages, nil
}

// GetByFilename returns a page, or nil (with no error) when absent.
func (s *Store) GetByFilename(ctx context.Context, d disk.Disk, filename string) (*model.Page, error) {
	p, err := s.read(ctx, d, filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Create writes a new page. Fails with AlreadyExists when the filename
// already has content on this disk.
func (s *Store) Create(ctx context.Context, d disk.Disk, filename, markdown string, tiptap json.RawMessage) (*model.Page, error) {
	exists, err := d.Exists(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("checking page %q: %w", filename, err)
	}
	if exists {
		return nil, errs.AlreadyExists(filename)
	}
	return s.write(ctx, d, filename, markdown, tiptap)
}

// Update overwrites an existing page. Fails with NotFound when absent.
func (s *Store) Update(ctx context.Context, d disk.Disk, filename, markdown string, tiptap json.RawMessage) (*model.Page, error) {
	exists, err := d.Exists(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("checking page %q: %w", filename, err)
	}
	if !exists {
		return nil, errs.NotFound(filename)
	}
	return s.write(ctx, d, filename, markdown, tiptap)
}

// Delete removes a page and its sidecar. Fails with NotFound when the page
// never existed, and with DeleteFailed when it existed but removal failed.
func (s *Store) Delete(ctx context.Context, d disk.Disk, filename string) error {
	exists, err := d.Exists(ctx, filename)
	if err != nil {
		return fmt.Errorf("checking page %q: %w", filename, err)
	}
	if !exists {
		return errs.NotFound(filename)
	}

	if err := d.Delete(ctx, filename); err != nil {
		return errs.DeleteFailed(filename, err)
	}
	// Sidecar removal is best effort: the markdown file is already gone,
	// so an orphaned sidecar is invisible to readers.
	_ = d.Delete(ctx, sidecarName(filename))
	return nil
}

// Exists reports whether a page exists. Never returns an error.
func (s *Store) Exists(ctx context.Context, d disk.Disk, filename string) bool {
	exists, err := d.Exists(ctx, filename)
	if err != nil {
		return false
	}
	return exists
}

// read loads a page and its sidecar projections.
func (s *Store) read(ctx context.Context, d disk.Disk, filename string) (*model.Page, error) {
	markdown, err := d.Read(ctx, filename)
	if err != nil {
		return nil, err
	}

	p := &model.Page{
		Filename:        filename,
		MarkdownContent: string(markdown),
	}

	if modTime, err := d.ModTime(ctx, filename); err == nil {
		p.LastModified = modTime
	}

	// A missing or corrupt sidecar means the projections get rebuilt.
	if raw, err := d.Read(ctx, sidecarName(filename)); err == nil {
		var sc sidecar
		if json.Unmarshal(raw, &sc) == nil {
			p.HTMLContent = sc.HTMLContent
			p.TiptapJSON = sc.TiptapJSON
		}
	}
	if p.HTMLContent == "" {
		html, err := s.renderer.ToHTML(p.MarkdownContent)
		if err != nil {
			return nil, err
		}
		p.HTMLContent = html
	}

	return p, nil
}

// write persists markdown and recomputes the derived projections.
func (s *Store) write(ctx context.Context, d disk.Disk, filename, markdown string, tiptap json.RawMessage) (*model.Page, error) {
	html, err := s.renderer.ToHTML(markdown)
	if err != nil {
		return nil, err
	}

	if err := d.Write(ctx, filename, []byte(markdown)); err != nil {
		return nil, fmt.Errorf("writing page %q: %w", filename, err)
	}

	sc := sidecar{HTMLContent: html, TiptapJSON: tiptap}
	raw, err := json.Marshal(sc)
	if err != nil {
		return nil, fmt.Errorf("encoding sidecar for %q: %w", filename, err)
	}
	if err := d.Write(ctx, sidecarName(filename), raw); err != nil {
		return nil, fmt.Errorf("writing sidecar for %q: %w", filename, err)
	}

	p := &model.Page{
		Filename:        filename,
		MarkdownContent: markdown,
		HTMLContent:     html,
		TiptapJSON:      tiptap,
		LastModified:    time.Now(),
	}
	if modTime, err := d.ModTime(ctx, filename); err == nil {
		p.LastModified = modTime
	}
	return p, nil
}
