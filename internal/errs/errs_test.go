// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorKindsAndStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantKind   Kind
		wantStatus int
	}{
		{"invalid filename", InvalidFilename("???"), KindInvalidFilename, http.StatusUnprocessableEntity},
		{"already exists", AlreadyExists("a.md"), KindAlreadyExists, http.StatusUnprocessableEntity},
		{"not found", NotFound("a.md"), KindNotFound, http.StatusNotFound},
		{"not found by id", NotFoundID(7), KindNotFound, http.StatusNotFound},
		{"delete failed", DeleteFailed("a.md", errors.New("io")), KindDeleteFailed, http.StatusInternalServerError},
		{"unknown disk", UnknownDisk("nope"), KindUnknownDisk, http.StatusUnprocessableEntity},
		{"conversion failed", ConversionFailed(errors.New("parse")), KindConversionFailed, http.StatusInternalServerError},
		{"rate limited", RateLimited(time.Minute), KindRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", tt.err.Kind, tt.wantKind)
			}
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if got := StatusFor(tt.err); got != tt.wantStatus {
				t.Errorf("StatusFor = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := NotFound("a.md")
	if !errors.Is(err, NotFound("b.md")) {
		t.Error("errors of the same kind do not match")
	}
	if errors.Is(err, AlreadyExists("a.md")) {
		t.Error("errors of different kinds match")
	}
}

func TestErrorIsMatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", UnknownDisk("nope"))
	if !errors.Is(wrapped, UnknownDisk("")) {
		t.Error("wrapped error does not match its kind")
	}
	if StatusFor(wrapped) != http.StatusUnprocessableEntity {
		t.Errorf("StatusFor wrapped = %d, want 422", StatusFor(wrapped))
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := DeleteFailed("a.md", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestStatusForUnknownError(t *testing.T) {
	if got := StatusFor(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("StatusFor plain error = %d, want 500", got)
	}
}

func TestKindFor(t *testing.T) {
	if got := KindFor(NotFound("a.md")); got != KindNotFound {
		t.Errorf("KindFor = %q, want %q", got, KindNotFound)
	}
	if got := KindFor(errors.New("plain")); got != "" {
		t.Errorf("KindFor plain error = %q, want empty", got)
	}
}

func TestRateLimitedRetryAfter(t *testing.T) {
	err := RateLimited(90 * time.Second)
	secs, ok := err.Data["retry_after_seconds"].(int)
	if !ok || secs != 90 {
		t.Errorf("retry_after_seconds = %v, want 90", err.Data["retry_after_seconds"])
	}
}
