// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	c := NewConverter()

	tests := []struct {
		name     string
		markdown string
		contains string
	}{
		{"heading", "# Title", "Title</h1>"},
		{"paragraph", "plain text", "<p>plain text</p>"},
		{"emphasis", "*world*", "<em>world</em>"},
		{"link", "[docs](https://example.com)", `href="https://example.com"`},
		{"gfm strikethrough", "~~old~~", "<del>old</del>"},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := c.ToHTML(tt.markdown)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(html, tt.contains) {
				t.Errorf("ToHTML(%q) = %q, want substring %q", tt.markdown, html, tt.contains)
			}
		})
	}
}

func TestToHTMLDeterministic(t *testing.T) {
	c := NewConverter()
	input := "# Title\n\nSome *markdown* with a [link](https://example.com).\n"

	first, err := c.ToHTML(input)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	second, err := c.ToHTML(input)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if first != second {
		t.Errorf("ToHTML not deterministic:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestToHTMLSanitizesScripts(t *testing.T) {
	c := NewConverter()

	html, err := c.ToHTML("hello <script>alert(1)</script> world")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("ToHTML output contains script tag: %q", html)
	}
}

func TestToMarkdown(t *testing.T) {
	c := NewConverter()

	tests := []struct {
		name     string
		html     string
		contains string
	}{
		{"heading", "<h1>Title</h1>", "# Title"},
		{"emphasis", "<p><em>world</em></p>", "*world*"},
		{"strong", "<p><strong>bold</strong></p>", "**bold**"},
		{"link", `<a href="https://example.com">docs</a>`, "(https://example.com)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := c.ToMarkdown(tt.html)
			if err != nil {
				t.Fatalf("ToMarkdown: %v", err)
			}
			if !strings.Contains(md, tt.contains) {
				t.Errorf("ToMarkdown(%q) = %q, want substring %q", tt.html, md, tt.contains)
			}
		})
	}
}
