// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// ListPackages handles GET /api/v1/packages. The analysis is globally
// rate limited; saturated callers receive 429 with a Retry-After header.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	pageNum := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 10)

	packages, meta, err := h.analyzer.Analyze(r.Context(), pageNum, perPage)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	WriteSuccess(w, packages, &Meta{
		Total:       meta.Total,
		CurrentPage: meta.CurrentPage,
		PerPage:     meta.PerPage,
		LastPage:    meta.LastPage,
		From:        meta.From,
		To:          meta.To,
	})
}
