// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mdcms-go/internal/errs"
	"github.com/olegiv/mdcms-go/internal/markdown"
	"github.com/olegiv/mdcms-go/internal/pkginfo"
	"github.com/olegiv/mdcms-go/internal/search"
	"github.com/olegiv/mdcms-go/internal/service"
)

// APIVersion is reported in every response envelope.
const APIVersion = "v1"

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	pages     *service.PageService
	converter *markdown.Converter
	analyzer  *pkginfo.Analyzer
	index     *search.Index
	logger    *slog.Logger
}

// NewHandler creates an API handler.
func NewHandler(db *sql.DB, pages *service.PageService, converter *markdown.Converter, analyzer *pkginfo.Analyzer, index *search.Index, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        db,
		pages:     pages,
		converter: converter,
		analyzer:  analyzer,
		index:     index,
		logger:    logger,
	}
}

// Routes registers all API routes on the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)
		r.Get("/disks/list", h.ListDisks)
		r.Route("/{filename}", func(r chi.Router) {
			r.Get("/", h.GetPage)
			r.Put("/", h.UpdatePage)
			r.Delete("/", h.DeletePage)
			r.Get("/revisions", h.ListRevisions)
			r.Get("/revisions/latest", h.LatestRevision)
		})
	})
	r.Get("/revisions/{id}", h.GetRevision)
	r.Post("/markdown/to-html", h.MarkdownToHTML)
	r.Post("/markdown/to-markdown", h.HTMLToMarkdown)
	r.Get("/packages", h.ListPackages)
	r.Get("/search", h.Search)
	r.Get("/health", h.Health)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries the envelope version and, for paginated listings, the
// pagination fields.
type Meta struct {
	APIVersion  string `json:"api_version"`
	Total       int    `json:"total,omitempty"`
	CurrentPage int    `json:"current_page,omitempty"`
	PerPage     int    `json:"per_page,omitempty"`
	LastPage    int    `json:"last_page,omitempty"`
	From        int    `json:"from,omitempty"`
	To          int    `json:"to,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response in the standard envelope.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	if meta == nil {
		meta = &Meta{APIVersion: APIVersion}
	} else if meta.APIVersion == "" {
		meta.APIVersion = APIVersion
	}
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 response in the standard envelope.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data, Meta: &Meta{APIVersion: APIVersion}})
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, statusCode int, code, errType, message string, data map[string]any) {
	WriteJSON(w, statusCode, ErrorResponse{Error: ErrorDetail{
		Code:    code,
		Type:    errType,
		Message: message,
		Data:    data,
	}})
}

// writeDomainError maps a service error to the error envelope. Domain
// errors keep their kind and structured data; anything else becomes an
// opaque 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		if retry, ok := domainErr.Data["retry_after_seconds"]; ok {
			if secs, ok := retry.(int); ok {
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
		}
		WriteError(w, domainErr.Status, string(domainErr.Kind), "domain", domainErr.Message, domainErr.Data)
		return
	}

	h.logger.Error("request failed", "error", err)
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal", "Internal server error", nil)
}

// writeBadRequest writes a 400 response for malformed input.
func writeBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", "request", message, nil)
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
