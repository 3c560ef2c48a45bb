// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package disk

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olegiv/mdcms-go/internal/util"
)

// Filesystem is a disk backed by a directory on the local filesystem.
type Filesystem struct {
	name string
	root string
}

// NewFilesystem creates a filesystem disk rooted at the given directory,
// creating it if necessary.
func NewFilesystem(name, root string) (*Filesystem, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating disk root %q: %w", root, err)
	}
	return &Filesystem{name: name, root: root}, nil
}

// Name returns the configured disk name.
func (f *Filesystem) Name() string {
	return f.name
}

// path resolves a filename against the disk root, rejecting traversal.
func (f *Filesystem) path(filename string) (string, error) {
	return util.SafeJoinPath(f.root, filename)
}

// List returns all filenames with the given extension.
func (f *Filesystem) List(_ context.Context, ext string) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("listing disk %q: %w", f.name, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext != "" && !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Read returns the content of a file.
func (f *Filesystem) Read(_ context.Context, filename string) ([]byte, error) {
	p, err := f.path(filename)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Write creates or overwrites a file. The write goes through a temp file
// and rename so readers never observe partial content.
func (f *Filesystem) Write(_ context.Context, filename string, data []byte) error {
	p, err := f.path(filename)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Delete removes a file.
func (f *Filesystem) Delete(_ context.Context, filename string) error {
	p, err := f.path(filename)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// Exists reports whether a file exists.
func (f *Filesystem) Exists(_ context.Context, filename string) (bool, error) {
	p, err := f.path(filename)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ModTime returns the last modification time of a file.
func (f *Filesystem) ModTime(_ context.Context, filename string) (time.Time, error) {
	p, err := f.path(filename)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Ensure Filesystem implements Disk.
var _ Disk = (*Filesystem)(nil)
