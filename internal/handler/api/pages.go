// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// PageRequest is the request body for creating or updating a page.
type PageRequest struct {
	Filename        string          `json:"filename,omitempty"`
	MarkdownContent string          `json:"markdown_content"`
	TiptapJSON      json.RawMessage `json:"tiptap_json,omitempty"`
	Disk            string          `json:"disk,omitempty"`
}

// diskParam resolves the storage disk selector: body value first, then
// the query string. Empty means the default disk.
func diskParam(r *http.Request, bodyDisk string) string {
	if bodyDisk != "" {
		return bodyDisk
	}
	return r.URL.Query().Get("disk")
}

// ListPages handles GET /api/v1/pages.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List(r.Context(), r.URL.Query().Get("disk"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	// Disk enumeration order is backend-dependent, so the listing is
	// sorted here for a stable response.
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Filename < pages[j].Filename
	})

	WriteSuccess(w, pages, &Meta{Total: len(pages)})
}

// GetPage handles GET /api/v1/pages/{filename}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.pages.Get(r.Context(), r.URL.Query().Get("disk"), chi.URLParam(r, "filename"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, p, nil)
}

// CreatePage handles POST /api/v1/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}
	if req.Filename == "" {
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", "request",
			"Validation failed", map[string]any{"filename": "Filename is required"})
		return
	}

	p, err := h.pages.Create(r.Context(), diskParam(r, req.Disk), req.Filename, req.MarkdownContent, req.TiptapJSON)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteCreated(w, p)
}

// UpdatePage handles PUT /api/v1/pages/{filename}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	p, err := h.pages.Update(r.Context(), diskParam(r, req.Disk), chi.URLParam(r, "filename"), req.MarkdownContent, req.TiptapJSON)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, p, nil)
}

// DeletePage handles DELETE /api/v1/pages/{filename}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	err := h.pages.Delete(r.Context(), r.URL.Query().Get("disk"), chi.URLParam(r, "filename"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, map[string]bool{"deleted": true}, nil)
}

// ListDisks handles GET /api/v1/pages/disks/list.
func (h *Handler) ListDisks(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, h.pages.DiskNames(), nil)
}

// ListRevisions handles GET /api/v1/pages/{filename}/revisions.
func (h *Handler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	revisions, err := h.pages.RevisionHistory(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, revisions, &Meta{Total: len(revisions)})
}

// LatestRevision handles GET /api/v1/pages/{filename}/revisions/latest.
func (h *Handler) LatestRevision(w http.ResponseWriter, r *http.Request) {
	rev, err := h.pages.LatestRevision(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, rev, nil)
}

// GetRevision handles GET /api/v1/revisions/{id}.
func (h *Handler) GetRevision(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "Invalid revision ID")
		return
	}

	rev, err := h.pages.GetRevision(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, rev, nil)
}
