// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/mdcms-go/internal/testutil"
)

// recordingListener collects delivered events.
type recordingListener struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (l *recordingListener) Name() string { return "recording" }

func (l *recordingListener) Handle(_ context.Context, e *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return l.err
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(TypePageCreated)
	if e.ID == "" {
		t.Error("ID not assigned")
	}
	if e.Type != TypePageCreated {
		t.Errorf("Type = %q, want %q", e.Type, TypePageCreated)
	}
	if e.OccurredAt.IsZero() {
		t.Error("OccurredAt is zero")
	}

	other := NewEvent(TypePageCreated)
	if other.ID == e.ID {
		t.Error("two events share an ID")
	}
}

func TestBusSyncDelivery(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{Sync: true})
	l := &recordingListener{}
	bus.Subscribe(l)

	e := NewEvent(TypePageUpdated)
	bus.Publish(context.Background(), e)

	if l.count() != 1 {
		t.Fatalf("delivered = %d events, want 1", l.count())
	}
	if l.events[0].ID != e.ID {
		t.Errorf("delivered event ID = %q, want %q", l.events[0].ID, e.ID)
	}
}

func TestBusSyncDeliversToAllListeners(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{Sync: true})
	first := &recordingListener{}
	second := &recordingListener{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(context.Background(), NewEvent(TypePageDeleted))

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("delivered = %d, %d; want 1, 1", first.count(), second.count())
	}
}

func TestBusListenerFailureDoesNotStopDelivery(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{Sync: true})
	failing := &recordingListener{err: errors.New("boom")}
	healthy := &recordingListener{}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	bus.Publish(context.Background(), NewEvent(TypeRevisionCreated))

	if healthy.count() != 1 {
		t.Errorf("healthy listener delivered = %d, want 1", healthy.count())
	}
}

func TestBusAsyncDelivery(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{Workers: 2, QueueSize: 16})
	l := &recordingListener{}
	bus.Subscribe(l)

	bus.Start(context.Background())
	for i := 0; i < 5; i++ {
		bus.Publish(context.Background(), NewEvent(TypePageCreated))
	}
	bus.Stop()

	if l.count() != 5 {
		t.Errorf("delivered = %d events after Stop, want 5", l.count())
	}
}

func TestBusDropsWhenNotRunning(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{Workers: 1, QueueSize: 4})
	l := &recordingListener{}
	bus.Subscribe(l)

	// Never started: publish must not block or panic.
	done := make(chan struct{})
	go func() {
		bus.Publish(context.Background(), NewEvent(TypePageCreated))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a stopped bus")
	}
	if l.count() != 0 {
		t.Errorf("delivered = %d on a stopped bus, want 0", l.count())
	}
}

func TestNewBusZeroConfigDefaults(t *testing.T) {
	bus := NewBus(testutil.TestLogger(), Config{})
	def := DefaultConfig()
	if bus.workers != def.Workers {
		t.Errorf("workers = %d, want default %d", bus.workers, def.Workers)
	}
	if cap(bus.queue) != def.QueueSize {
		t.Errorf("queue capacity = %d, want default %d", cap(bus.queue), def.QueueSize)
	}
}
