// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pkginfo

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/mdcms-go/internal/errs"
)

// Analyzer runs the dependency-manifest analysis behind a global rate gate:
// at most one analysis per decay window across all callers. Saturated
// callers are rejected, never queued.
type Analyzer struct {
	root    string
	decay   time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer for the manifest under root.
func NewAnalyzer(root string, decay time.Duration, logger *slog.Logger) *Analyzer {
	if decay <= 0 {
		decay = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		root:    root,
		decay:   decay,
		limiter: rate.NewLimiter(rate.Every(decay), 1),
		logger:  logger,
	}
}

// Analyze parses and merges the manifest, returning one requested page of
// the package list. Fails with RateLimited when called again within the
// decay window.
func (a *Analyzer) Analyze(ctx context.Context, pageNum, perPage int) ([]Package, PageMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, PageMeta{}, err
	}
	if !a.limiter.Allow() {
		return nil, PageMeta{}, errs.RateLimited(a.decay)
	}

	start := time.Now()
	packages, err := loadPackages(a.root)
	if err != nil {
		return nil, PageMeta{}, err
	}
	a.logger.Debug("analyzed dependency manifest",
		"packages", len(packages),
		"duration", time.Since(start))

	items, meta := Paginate(packages, pageNum, perPage)
	return items, meta, nil
}
