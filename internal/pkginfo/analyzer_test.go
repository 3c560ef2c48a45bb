// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pkginfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/olegiv/mdcms-go/internal/errs"
	"github.com/olegiv/mdcms-go/internal/testutil"
)

const testManifest = `{
	"require": {
		"php": "^8.2",
		"ext-json": "*",
		"laravel/framework": "^11.0",
		"league/commonmark": "^2.4"
	},
	"require-dev": {
		"phpunit/phpunit": "^11.0"
	}
}`

const testLock = `{
	"packages": [
		{
			"name": "laravel/framework",
			"version": "v11.9.2",
			"description": "The Laravel Framework.",
			"homepage": "https://laravel.com",
			"license": ["MIT"],
			"type": "library"
		},
		{
			"name": "league/commonmark",
			"version": "2.4.2",
			"description": "Markdown parser",
			"license": ["BSD-3-Clause"],
			"type": "library"
		}
	],
	"packages-dev": [
		{
			"name": "phpunit/phpunit",
			"version": "11.1.0",
			"description": "Testing framework",
			"license": ["BSD-3-Clause"],
			"type": "library"
		}
	]
}`

func writeManifest(t *testing.T, withLock bool) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "composer.json"), []byte(testManifest), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	if withLock {
		if err := os.WriteFile(filepath.Join(root, "composer.lock"), []byte(testLock), 0644); err != nil {
			t.Fatalf("writing lock: %v", err)
		}
	}
	return root
}

func TestLoadPackages(t *testing.T) {
	packages, err := loadPackages(writeManifest(t, true))
	if err != nil {
		t.Fatalf("loadPackages: %v", err)
	}

	// Platform requirements are excluded; the rest is sorted by name.
	wantNames := []string{"laravel/framework", "league/commonmark", "phpunit/phpunit"}
	if len(packages) != len(wantNames) {
		t.Fatalf("loadPackages = %d packages, want %d", len(packages), len(wantNames))
	}
	for i, want := range wantNames {
		if packages[i].Name != want {
			t.Errorf("packages[%d].Name = %q, want %q", i, packages[i].Name, want)
		}
	}

	laravel := packages[0]
	if laravel.RequiredVersion != "^11.0" {
		t.Errorf("RequiredVersion = %q, want %q", laravel.RequiredVersion, "^11.0")
	}
	if laravel.InstalledVersion != "v11.9.2" {
		t.Errorf("InstalledVersion = %q, want %q", laravel.InstalledVersion, "v11.9.2")
	}
	if laravel.Dev {
		t.Error("laravel/framework marked as dev dependency")
	}

	phpunit := packages[2]
	if !phpunit.Dev {
		t.Error("phpunit/phpunit not marked as dev dependency")
	}
}

func TestLoadPackagesWithoutLock(t *testing.T) {
	packages, err := loadPackages(writeManifest(t, false))
	if err != nil {
		t.Fatalf("loadPackages: %v", err)
	}
	if len(packages) != 3 {
		t.Fatalf("loadPackages = %d packages, want 3", len(packages))
	}
	for _, p := range packages {
		if p.InstalledVersion != "" {
			t.Errorf("%s has InstalledVersion %q without a lock file", p.Name, p.InstalledVersion)
		}
		if p.RequiredVersion == "" {
			t.Errorf("%s has empty RequiredVersion", p.Name)
		}
	}
}

func TestLoadPackagesMissingManifest(t *testing.T) {
	if _, err := loadPackages(t.TempDir()); err == nil {
		t.Error("loadPackages without manifest succeeded, want error")
	}
}

func TestAnalyzerRateLimit(t *testing.T) {
	a := NewAnalyzer(writeManifest(t, true), time.Hour, testutil.TestLogger())
	ctx := context.Background()

	if _, _, err := a.Analyze(ctx, 1, 10); err != nil {
		t.Fatalf("first Analyze: %v", err)
	}

	// The token bucket holds a single token; within the decay window a
	// second caller is rejected, not queued.
	_, _, err := a.Analyze(ctx, 1, 10)
	var domainErr *errs.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != errs.KindRateLimited {
		t.Fatalf("second Analyze error = %v, want rate_limited", err)
	}
	if domainErr.Status != 429 {
		t.Errorf("Status = %d, want 429", domainErr.Status)
	}
}

func TestAnalyzerPagination(t *testing.T) {
	a := NewAnalyzer(writeManifest(t, true), time.Millisecond, testutil.TestLogger())
	ctx := context.Background()

	items, meta, err := a.Analyze(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("page 1 = %d items, want 2", len(items))
	}
	if meta.Total != 3 || meta.LastPage != 2 || meta.From != 1 || meta.To != 2 {
		t.Errorf("meta = %+v, want total 3, last_page 2, from 1, to 2", meta)
	}
}
