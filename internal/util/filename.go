// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// filename sanitization with Unicode normalization support.
package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/olegiv/mdcms-go/internal/errs"
)

// PageExtension is the extension every stored page filename carries.
const PageExtension = ".md"

var (
	// separatorRuns matches characters treated as word separators.
	separatorRuns = regexp.MustCompile(`[\s/\\._]+`)
	// unsafeRunes matches everything outside the slug alphabet.
	unsafeRunes = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// SanitizeFilename normalizes a user-supplied page name into a safe storage
// key with the .md extension. The result contains only lowercase letters,
// digits, and hyphens, so it can never escape the storage root.
//
// Sanitization is idempotent: SanitizeFilename(SanitizeFilename(x)) returns
// the same value. Inputs that normalize to an empty name or that still
// contain parent-directory segments after cleaning are rejected.
func SanitizeFilename(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, PageExtension)

	// Path traversal guard: reject any name whose cleaned form still
	// refers outside the storage root.
	cleaned := filepath.Clean(name)
	if containsParentSegment(cleaned) {
		return "", errs.InvalidFilename(raw)
	}

	stem := slugify(cleaned)
	if stem == "" {
		return "", errs.InvalidFilename(raw)
	}

	return stem + PageExtension, nil
}

// slugify converts a string to a filesystem-safe slug. It transliterates
// non-ASCII characters, lowercases, replaces separator runs with hyphens,
// and drops everything outside [a-z0-9-].
func slugify(s string) string {
	// Decompose accents first, then transliterate what remains.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = unidecode.Unidecode(result)

	result = strings.ToLower(result)
	result = separatorRuns.ReplaceAllString(result, "-")
	result = unsafeRunes.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// containsParentSegment reports whether a cleaned path still contains a
// ".." segment.
func containsParentSegment(cleaned string) bool {
	if cleaned == ".." {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(cleaned, ".."+sep) ||
		strings.HasSuffix(cleaned, sep+"..") ||
		strings.Contains(cleaned, sep+".."+sep)
}
