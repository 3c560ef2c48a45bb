// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package search provides full-text page search backed by a Bleve index.
package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/olegiv/mdcms-go/internal/model"
)

// Index wraps a Bleve search index over page content.
type Index struct {
	index bleve.Index
}

// IndexedPage is the document shape stored in the index. Documents are
// keyed by "<disk>/<filename>" so the same filename on different disks
// indexes independently.
type IndexedPage struct {
	Disk         string
	Filename     string
	Content      string
	LastModified time.Time
}

// Result is one search hit.
type Result struct {
	Disk      string              `json:"disk"`
	Filename  string              `json:"filename"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// docID builds the index document key.
func docID(disk, filename string) string {
	return disk + "/" + filename
}

// Open opens or creates the index at path. An empty path opens an
// in-memory index, used by tests.
func Open(path string) (*Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &Index{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Disk", bleve.NewKeywordFieldMapping())
	docMapping.AddFieldMappingsAt("Filename", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Content", contentFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexPage adds or updates a page document.
func (i *Index) IndexPage(disk string, p *model.Page) error {
	doc := &IndexedPage{
		Disk:         disk,
		Filename:     p.Filename,
		Content:      p.MarkdownContent,
		LastModified: p.LastModified,
	}
	return i.index.Index(docID(disk, p.Filename), doc)
}

// DeletePage removes a page document.
func (i *Index) DeletePage(disk, filename string) error {
	return i.index.Delete(docID(disk, filename))
}

// Search runs a query-string search, optionally restricted to one disk.
func (i *Index) Search(queryStr, disk string, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = 20
	}

	var query = bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(query), limit, 0, false)
	if disk != "" {
		diskQuery := bleve.NewTermQuery(disk)
		diskQuery.SetField("Disk")
		req = bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(query, diskQuery), limit, 0, false)
	}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Fields = []string{"Disk", "Filename"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]*Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		r := &Result{
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}
		if d, ok := hit.Fields["Disk"].(string); ok {
			r.Disk = d
		}
		if f, ok := hit.Fields["Filename"].(string); ok {
			r.Filename = f
		}
		hits = append(hits, r)
	}
	return hits, nil
}

// IndexAll batch-indexes a set of pages from one disk.
func (i *Index) IndexAll(disk string, pages []model.Page) error {
	batch := i.index.NewBatch()
	for idx := range pages {
		p := &pages[idx]
		doc := &IndexedPage{
			Disk:         disk,
			Filename:     p.Filename,
			Content:      p.MarkdownContent,
			LastModified: p.LastModified,
		}
		if err := batch.Index(docID(disk, p.Filename), doc); err != nil {
			return fmt.Errorf("batch index %s: %w", p.Filename, err)
		}
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Count returns the number of indexed documents.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
