// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// Search handles GET /api/v1/search. Accepts q (required), disk, and
// limit parameters.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeBadRequest(w, "Query parameter q is required")
		return
	}

	results, err := h.index.Search(query, r.URL.Query().Get("disk"), queryInt(r, "limit", 20))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	WriteSuccess(w, results, &Meta{Total: len(results)})
}
