// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package disk

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory disk used by tests and ephemeral deployments.
type Memory struct {
	name string

	mu    sync.RWMutex
	files map[string]memoryFile
}

type memoryFile struct {
	data    []byte
	modTime time.Time
}

// NewMemory creates an empty in-memory disk.
func NewMemory(name string) *Memory {
	return &Memory{
		name:  name,
		files: make(map[string]memoryFile),
	}
}

// Name returns the configured disk name.
func (m *Memory) Name() string {
	return m.name
}

// List returns all filenames with the given extension.
func (m *Memory) List(_ context.Context, ext string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.files {
		if ext != "" && !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Read returns a copy of the file content.
func (m *Memory) Read(_ context.Context, filename string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[filename]
	if !ok {
		return nil, fmt.Errorf("reading %q: %w", filename, os.ErrNotExist)
	}
	data := make([]byte, len(f.data))
	copy(data, f.data)
	return data, nil
}

// Write creates or overwrites a file.
func (m *Memory) Write(_ context.Context, filename string, data []byte) error {
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = memoryFile{data: dataCopy, modTime: time.Now()}
	return nil
}

// Delete removes a file.
func (m *Memory) Delete(_ context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[filename]; !ok {
		return fmt.Errorf("deleting %q: %w", filename, os.ErrNotExist)
	}
	delete(m.files, filename)
	return nil
}

// Exists reports whether a file exists.
func (m *Memory) Exists(_ context.Context, filename string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[filename]
	return ok, nil
}

// ModTime returns the last modification time of a file.
func (m *Memory) ModTime(_ context.Context, filename string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[filename]
	if !ok {
		return time.Time{}, fmt.Errorf("stat %q: %w", filename, os.ErrNotExist)
	}
	return f.modTime, nil
}

// Ensure Memory implements Disk.
var _ Disk = (*Memory)(nil)
