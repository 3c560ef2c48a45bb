// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pkginfo

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Paginate slices items into one page. Pages are 1-based; out-of-range
// pages return an empty slice with From and To of zero. Twenty items at
// ten per page yield two pages; at five per page, four.
func Paginate[T any](items []T, pageNum, perPage int) ([]T, PageMeta) {
	if perPage < 1 {
		perPage = 1
	}
	if pageNum < 1 {
		pageNum = 1
	}

	total := len(items)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	meta := PageMeta{
		CurrentPage: pageNum,
		PerPage:     perPage,
		LastPage:    lastPage,
		Total:       total,
	}

	start := (pageNum - 1) * perPage
	if start >= total {
		return []T{}, meta
	}
	end := start + perPage
	if end > total {
		end = total
	}

	meta.From = start + 1
	meta.To = end
	return items[start:end], meta
}
