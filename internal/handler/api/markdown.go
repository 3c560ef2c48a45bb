// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
)

// MarkdownToHTML handles POST /api/v1/markdown/to-html.
func (h *Handler) MarkdownToHTML(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Markdown string `json:"markdown"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	html, err := h.converter.ToHTML(req.Markdown)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"html": html}, nil)
}

// HTMLToMarkdown handles POST /api/v1/markdown/to-markdown.
func (h *Handler) HTMLToMarkdown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HTML string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON body")
		return
	}

	md, err := h.converter.ToMarkdown(req.HTML)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, map[string]string{"markdown": md}, nil)
}
