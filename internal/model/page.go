// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Revision types.
const (
	RevisionTypeCreate   = "create"
	RevisionTypeUpdate   = "update"
	RevisionTypeDelete   = "delete"
	RevisionTypeConflict = "conflict"
)

// Page is a file-backed Markdown document. It is not a persisted row: the
// markdown file on the selected disk is the source of truth, HTML and the
// Tiptap document are derived projections recomputed on write.
type Page struct {
	Filename        string          `json:"filename"`
	MarkdownContent string          `json:"markdown_content"`
	HTMLContent     string          `json:"html_content"`
	TiptapJSON      json.RawMessage `json:"tiptap_json,omitempty"`
	LastModified    time.Time       `json:"last_modified"`
}

// PageRevision is an immutable snapshot of a page's content at a point in
// its mutation history. Revisions are append-only and ordered by CreatedAt
// with ID as tiebreak.
type PageRevision struct {
	ID              int64           `json:"id"`
	Filename        string          `json:"filename"`
	MarkdownContent string          `json:"markdown_content"`
	HTMLContent     string          `json:"html_content"`
	TiptapJSON      json.RawMessage `json:"tiptap_json,omitempty"`
	RevisionType    string          `json:"revision_type"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ValidRevisionType reports whether t is one of the known revision types.
func ValidRevisionType(t string) bool {
	switch t {
	case RevisionTypeCreate, RevisionTypeUpdate, RevisionTypeDelete, RevisionTypeConflict:
		return true
	}
	return false
}
