// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryPage     = "page"
	EventCategoryRevision = "revision"
	EventCategoryCache    = "cache"
	EventCategorySearch   = "search"
	EventCategorySystem   = "system"
)
