// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown converts between Markdown and sanitized HTML.
package markdown

import (
	"bytes"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/olegiv/mdcms-go/internal/errs"
)

// Converter performs Markdown and HTML transforms. Conversion is a pure
// function of the input: the same markdown always yields the same HTML.
type Converter struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewConverter creates a converter with GFM extensions and a UGC
// sanitization policy applied to all rendered HTML.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// ToHTML renders markdown to sanitized HTML.
func (c *Converter) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", errs.ConversionFailed(err)
	}
	return string(c.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// ToMarkdown converts HTML back to markdown.
func (c *Converter) ToMarkdown(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", errs.ConversionFailed(err)
	}
	return markdown, nil
}
