// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/mdcms-go/internal/version"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Health handles GET /api/v1/health. Reports 503 when the database does
// not respond to a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  version.Version,
		Database: "ok",
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		WriteJSON(w, http.StatusServiceUnavailable, Response{Data: resp, Meta: &Meta{APIVersion: APIVersion}})
		return
	}
	WriteSuccess(w, resp, nil)
}
