// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package event provides the in-process domain event bus. Page and revision
// mutations fire events here; listeners perform caching, audit logging, and
// search index upkeep out of band.
package event

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/mdcms-go/internal/model"
)

// Event types.
const (
	TypePageCreated     = "page.created"
	TypePageUpdated     = "page.updated"
	TypePageDeleted     = "page.deleted"
	TypeRevisionCreated = "revision.created"
)

// Event is the envelope delivered to listeners.
type Event struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Disk       string               `json:"disk,omitempty"`
	Page       *model.Page          `json:"page,omitempty"`
	Revision   *model.PageRevision  `json:"revision,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// NewEvent creates an event envelope with a fresh ID.
func NewEvent(eventType string) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now(),
	}
}

// Listener handles delivered events. Listener failures never propagate to
// the publisher; they are logged and swallowed at the bus boundary.
type Listener interface {
	Name() string
	Handle(ctx context.Context, e *Event) error
}

// Config holds bus configuration.
type Config struct {
	Workers   int  // Number of delivery workers
	QueueSize int  // Buffered queue capacity
	Sync      bool // Deliver inline on Publish (used by tests)
}

// DefaultConfig returns default bus configuration.
func DefaultConfig() Config {
	return Config{
		Workers:   3,
		QueueSize: 256,
	}
}

// Bus dispatches events to registered listeners. In async mode delivery
// runs on worker goroutines; callers must not assume listeners completed
// before Publish returns.
type Bus struct {
	logger    *slog.Logger
	listeners []Listener
	queue     chan *Event
	workers   int
	sync      bool

	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// NewBus creates an event bus. Zero values fall back to DefaultConfig.
func NewBus(logger *slog.Logger, cfg Config) *Bus {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bus{
		logger:  logger,
		queue:   make(chan *Event, cfg.QueueSize),
		workers: cfg.Workers,
		sync:    cfg.Sync,
		done:    make(chan struct{}),
	}
}

// Subscribe registers a listener. Must be called before Start.
func (b *Bus) Subscribe(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Start starts the delivery workers. A no-op in sync mode.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	if b.running || b.sync {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.mu.Unlock()

	b.logger.Info("starting event bus", "workers", b.workers)

	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.worker(ctx, i)
	}
}

// Stop stops the bus and waits for in-flight deliveries to finish.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	b.mu.Unlock()

	b.logger.Info("stopping event bus")
	close(b.done)
	b.wg.Wait()
	b.logger.Info("event bus stopped")
}

// Publish delivers an event to all listeners. In async mode the event is
// queued and Publish returns immediately; a full queue drops the event with
// a warning rather than blocking the mutation path.
func (b *Bus) Publish(ctx context.Context, e *Event) {
	if b.sync {
		b.deliver(ctx, e)
		return
	}

	b.mu.RLock()
	running := b.running
	b.mu.RUnlock()
	if !running {
		b.logger.Warn("event bus not running, dropping event", "event_type", e.Type)
		return
	}

	select {
	case b.queue <- e:
	default:
		b.logger.Warn("event queue full, dropping event", "event_type", e.Type, "event_id", e.ID)
	}
}

// worker processes queued events.
func (b *Bus) worker(ctx context.Context, id int) {
	defer b.wg.Done()
	b.logger.Debug("event worker started", "worker_id", id)

	for {
		select {
		case <-b.done:
			// Drain remaining events before exiting.
			for {
				select {
				case e := <-b.queue:
					b.deliver(ctx, e)
				default:
					b.logger.Debug("event worker stopping", "worker_id", id)
					return
				}
			}
		case e := <-b.queue:
			b.deliver(ctx, e)
		}
	}
}

// deliver invokes every listener, logging and swallowing failures.
func (b *Bus) deliver(ctx context.Context, e *Event) {
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()

	for _, l := range listeners {
		if err := l.Handle(ctx, e); err != nil {
			b.logger.Error("event listener failed",
				"listener", l.Name(),
				"event_type", e.Type,
				"event_id", e.ID,
				"error", err)
		}
	}
}
