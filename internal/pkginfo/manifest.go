// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package pkginfo analyzes a composer-style dependency manifest and exposes
// a paginated, rate-limited package listing.
package pkginfo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// manifest mirrors the fields of composer.json this package reads.
type manifest struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

// lockFile mirrors the fields of composer.lock this package reads.
type lockFile struct {
	Packages    []lockedPackage `json:"packages"`
	PackagesDev []lockedPackage `json:"packages-dev"`
}

type lockedPackage struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
	License     []string `json:"license"`
	Type        string   `json:"type"`
}

// Package is one analyzed dependency: the manifest's requirement constraint
// merged with the locked install metadata.
type Package struct {
	Name             string   `json:"name"`
	RequiredVersion  string   `json:"required_version"`
	InstalledVersion string   `json:"installed_version,omitempty"`
	Description      string   `json:"description,omitempty"`
	Homepage         string   `json:"homepage,omitempty"`
	License          []string `json:"license,omitempty"`
	Type             string   `json:"type,omitempty"`
	Dev              bool     `json:"dev"`
}

// loadPackages reads composer.json and composer.lock under root and merges
// them into a name-sorted package list. A missing lock file is not an
// error: entries then carry only the requirement constraint.
func loadPackages(root string) ([]Package, error) {
	rawManifest, err := os.ReadFile(filepath.Join(root, "composer.json"))
	if err != nil {
		return nil, fmt.Errorf("reading dependency manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(rawManifest, &m); err != nil {
		return nil, fmt.Errorf("parsing dependency manifest: %w", err)
	}

	locked := map[string]lockedPackage{}
	if rawLock, err := os.ReadFile(filepath.Join(root, "composer.lock")); err == nil {
		var l lockFile
		if err := json.Unmarshal(rawLock, &l); err != nil {
			return nil, fmt.Errorf("parsing lock file: %w", err)
		}
		for _, p := range l.Packages {
			locked[p.Name] = p
		}
		for _, p := range l.PackagesDev {
			locked[p.Name] = p
		}
	}

	packages := make([]Package, 0, len(m.Require)+len(m.RequireDev))
	packages = appendPackages(packages, m.Require, locked, false)
	packages = appendPackages(packages, m.RequireDev, locked, true)

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages, nil
}

func appendPackages(dst []Package, require map[string]string, locked map[string]lockedPackage, dev bool) []Package {
	for name, constraint := range require {
		// Platform requirements (the runtime itself and its extensions)
		// are not packages.
		if name == "php" || strings.HasPrefix(name, "ext-") {
			continue
		}
		p := Package{
			Name:            name,
			RequiredVersion: constraint,
			Dev:             dev,
		}
		if lp, ok := locked[name]; ok {
			p.InstalledVersion = lp.Version
			p.Description = lp.Description
			p.Homepage = lp.Homepage
			p.License = lp.License
			p.Type = lp.Type
		}
		dst = append(dst, p)
	}
	return dst
}
