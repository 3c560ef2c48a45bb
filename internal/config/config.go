// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"MDCMS_DB_PATH" envDefault:"./data/mdcms.db"`
	ServerHost string `env:"MDCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MDCMS_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"MDCMS_ENV" envDefault:"development"`
	LogLevel   string `env:"MDCMS_LOG_LEVEL" envDefault:"info"`

	// Disk configuration. PagesDir backs the default "pages" disk;
	// PackagesDir backs the "packages" disk used for dependency docs.
	PagesDir    string `env:"MDCMS_PAGES_DIR" envDefault:"./data/pages"`
	PackagesDir string `env:"MDCMS_PACKAGES_DIR" envDefault:"./data/packages"`

	// Cache configuration
	RedisURL     string `env:"MDCMS_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"MDCMS_CACHE_PREFIX" envDefault:"mdcms:"`   // Redis key prefix
	CacheTTL     int    `env:"MDCMS_CACHE_TTL" envDefault:"86400"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"MDCMS_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// Event bus configuration
	EventWorkers   int `env:"MDCMS_EVENT_WORKERS" envDefault:"3"`
	EventQueueSize int `env:"MDCMS_EVENT_QUEUE_SIZE" envDefault:"256"`

	// Package analysis configuration
	ProjectRoot      string `env:"MDCMS_PROJECT_ROOT" envDefault:"."`      // Directory containing composer.json/composer.lock
	AnalysisDecaySec int    `env:"MDCMS_ANALYSIS_DECAY_SEC" envDefault:"60"` // One analysis per decay window

	// Search configuration
	SearchIndexPath string `env:"MDCMS_SEARCH_INDEX_PATH" envDefault:"./data/search.bleve"`

	// Event log retention
	EventRetentionDays int `env:"MDCMS_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// AnalysisDecay returns the package analysis decay window as a duration.
func (c Config) AnalysisDecay() time.Duration {
	return time.Duration(c.AnalysisDecaySec) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("MDCMS_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}
	if cfg.EventWorkers <= 0 {
		return nil, fmt.Errorf("MDCMS_EVENT_WORKERS must be positive, got %d", cfg.EventWorkers)
	}
	if cfg.AnalysisDecaySec <= 0 {
		return nil, fmt.Errorf("MDCMS_ANALYSIS_DECAY_SEC must be positive, got %d", cfg.AnalysisDecaySec)
	}

	return cfg, nil
}
