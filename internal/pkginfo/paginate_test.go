// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pkginfo

import "testing"

func makeItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		page      int
		perPage   int
		wantItems []int
		wantMeta  PageMeta
	}{
		{
			name:      "first page of two",
			total:     20,
			page:      1,
			perPage:   10,
			wantItems: makeItems(10),
			wantMeta:  PageMeta{CurrentPage: 1, PerPage: 10, LastPage: 2, Total: 20, From: 1, To: 10},
		},
		{
			name:      "second page of two",
			total:     20,
			page:      2,
			perPage:   10,
			wantItems: []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
			wantMeta:  PageMeta{CurrentPage: 2, PerPage: 10, LastPage: 2, Total: 20, From: 11, To: 20},
		},
		{
			name:      "smaller page size yields four pages",
			total:     20,
			page:      4,
			perPage:   5,
			wantItems: []int{16, 17, 18, 19, 20},
			wantMeta:  PageMeta{CurrentPage: 4, PerPage: 5, LastPage: 4, Total: 20, From: 16, To: 20},
		},
		{
			name:      "partial last page",
			total:     13,
			page:      2,
			perPage:   10,
			wantItems: []int{11, 12, 13},
			wantMeta:  PageMeta{CurrentPage: 2, PerPage: 10, LastPage: 2, Total: 13, From: 11, To: 13},
		},
		{
			name:      "page beyond range",
			total:     5,
			page:      3,
			perPage:   10,
			wantItems: []int{},
			wantMeta:  PageMeta{CurrentPage: 3, PerPage: 10, LastPage: 1, Total: 5, From: 0, To: 0},
		},
		{
			name:      "empty input",
			total:     0,
			page:      1,
			perPage:   10,
			wantItems: []int{},
			wantMeta:  PageMeta{CurrentPage: 1, PerPage: 10, LastPage: 1, Total: 0, From: 0, To: 0},
		},
		{
			name:      "zero page clamps to one",
			total:     3,
			page:      0,
			perPage:   2,
			wantItems: []int{1, 2},
			wantMeta:  PageMeta{CurrentPage: 1, PerPage: 2, LastPage: 2, Total: 3, From: 1, To: 2},
		},
		{
			name:      "zero per page clamps to one",
			total:     3,
			page:      2,
			perPage:   0,
			wantItems: []int{2},
			wantMeta:  PageMeta{CurrentPage: 2, PerPage: 1, LastPage: 3, Total: 3, From: 2, To: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, meta := Paginate(makeItems(tt.total), tt.page, tt.perPage)
			if meta != tt.wantMeta {
				t.Errorf("meta = %+v, want %+v", meta, tt.wantMeta)
			}
			if len(items) != len(tt.wantItems) {
				t.Fatalf("items = %v, want %v", items, tt.wantItems)
			}
			for i := range items {
				if items[i] != tt.wantItems[i] {
					t.Errorf("items[%d] = %d, want %d", i, items[i], tt.wantItems[i])
				}
			}
		})
	}
}
