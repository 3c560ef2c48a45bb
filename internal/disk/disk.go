// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package disk provides named, interchangeable storage backends for page
// content. A disk is selected per operation; nothing in this package keeps
// per-request mutable state.
package disk

import (
	"context"
	"sort"
	"time"

	"github.com/olegiv/mdcms-go/internal/errs"
)

// Disk is a flat, named storage backend. Filenames are storage keys that
// have already been sanitized; implementations must never interpret them
// as paths with directory components.
//
// All implementations must be safe for concurrent use.
type Disk interface {
	// Name returns the configured disk name.
	Name() string

	// List returns all filenames with the given extension. Order is not
	// guaranteed stable across backends; callers needing order must sort.
	List(ctx context.Context, ext string) ([]string, error)

	// Read returns the content of a file. Returns os.ErrNotExist-wrapped
	// errors when the file is absent.
	Read(ctx context.Context, filename string) ([]byte, error)

	// Write creates or overwrites a file.
	Write(ctx context.Context, filename string, data []byte) error

	// Delete removes a file. Deleting an absent file is an error.
	Delete(ctx context.Context, filename string) error

	// Exists reports whether a file exists. Never returns an error for
	// a missing file.
	Exists(ctx context.Context, filename string) (bool, error)

	// ModTime returns the last modification time of a file.
	ModTime(ctx context.Context, filename string) (time.Time, error)
}

// DefaultName is the disk used when a request does not select one.
const DefaultName = "pages"

// Manager is a registry of configured disks. It is populated once at
// startup and read-only afterwards.
type Manager struct {
	disks map[string]Disk
}

// NewManager creates a manager over the given disks.
func NewManager(disks ...Disk) *Manager {
	m := &Manager{disks: make(map[string]Disk, len(disks))}
	for _, d := range disks {
		m.disks[d.Name()] = d
	}
	return m
}

// Get resolves a disk by name. An empty name resolves to the default disk.
func (m *Manager) Get(name string) (Disk, error) {
	if name == "" {
		name = DefaultName
	}
	d, ok := m.disks[name]
	if !ok {
		return nil, errs.UnknownDisk(name)
	}
	return d, nil
}

// Names returns the configured disk names, sorted.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.disks))
	for name := range m.disks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
