// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package errs defines the domain error taxonomy. Every error carries a
// stable machine-readable kind and an HTTP status, so handlers map errors
// to responses without string matching.
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind identifies a class of domain error.
type Kind string

// Error kinds.
const (
	KindInvalidFilename  Kind = "invalid_filename"
	KindAlreadyExists    Kind = "already_exists"
	KindNotFound         Kind = "not_found"
	KindDeleteFailed     Kind = "delete_failed"
	KindUnknownDisk      Kind = "unknown_disk"
	KindConversionFailed Kind = "conversion_failed"
	KindRateLimited      Kind = "rate_limited"
)

// Error is a domain error with a kind, an HTTP status, and optional
// structured data for the response body.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Data    map[string]any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.cause }

// Is matches errors of the same kind, so errors.Is(err, errs.NotFound(""))
// works regardless of the message.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// InvalidFilename reports a filename that sanitizes to nothing or attempts
// to escape the storage root.
func InvalidFilename(raw string) *Error {
	return &Error{
		Kind:    KindInvalidFilename,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("invalid filename %q", raw),
		Data:    map[string]any{"filename": raw},
	}
}

// AlreadyExists reports a create against an existing filename.
func AlreadyExists(filename string) *Error {
	return &Error{
		Kind:    KindAlreadyExists,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("page %q already exists", filename),
		Data:    map[string]any{"filename": filename},
	}
}

// NotFound reports a missing page or revision history for a filename.
func NotFound(filename string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("page %q not found", filename),
		Data:    map[string]any{"filename": filename},
	}
}

// NotFoundID reports a missing revision by numeric ID.
func NotFoundID(id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("revision %d not found", id),
		Data:    map[string]any{"id": id},
	}
}

// DeleteFailed reports a page that exists but could not be removed.
func DeleteFailed(filename string, cause error) *Error {
	return &Error{
		Kind:    KindDeleteFailed,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("failed to delete page %q", filename),
		Data:    map[string]any{"filename": filename},
		cause:   cause,
	}
}

// UnknownDisk reports a disk name outside the configured set.
func UnknownDisk(name string) *Error {
	return &Error{
		Kind:    KindUnknownDisk,
		Status:  http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("unknown disk %q", name),
		Data:    map[string]any{"disk": name},
	}
}

// ConversionFailed reports a markdown or HTML conversion failure.
func ConversionFailed(cause error) *Error {
	return &Error{
		Kind:    KindConversionFailed,
		Status:  http.StatusInternalServerError,
		Message: "content conversion failed",
		cause:   cause,
	}
}

// RateLimited reports a request rejected by a rate limiter.
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Kind:    KindRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: "too many requests",
		Data:    map[string]any{"retry_after_seconds": int(retryAfter.Seconds() + 0.5)},
	}
}

// StatusFor maps an error to an HTTP status, defaulting to 500.
func StatusFor(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// KindFor returns the error kind, or empty for non-domain errors.
func KindFor(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
