package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/events"
)

const DefaultFeedSize = 50

type notification interface {
	Notification() events.BaseEvent
}

// Feed keeps the most recent notifications, newest last, for toast rendering.
type Feed struct {
	mu    sync.RWMutex
	size  int
	items []events.BaseEvent
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}

	return &Feed{size: size}
}

// Register subscribes the feed to every notification type on the bus.
func (f *Feed) Register(bus eventbus.EventSubscriber) error {
	for _, eventType := range []events.EventType{events.WorkflowStartedEvent, events.WorkflowStartFailedEvent} {
		if err := bus.Handle(eventType, f.handle); err != nil {
			return fmt.Errorf("failed to register %s handler: %w", eventType, err)
		}
	}

	return nil
}

func (f *Feed) handle(_ context.Context, event interface{}) error {
	n, ok := event.(notification)
	if !ok {
		return nil
	}

	f.Add(n.Notification())

	return nil
}

// Add appends a notification, evicting the oldest one when full.
func (f *Feed) Add(item events.BaseEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, item)
	if len(f.items) > f.size {
		f.items = append([]events.BaseEvent(nil), f.items[len(f.items)-f.size:]...)
	}
}

// Recent returns up to limit notifications, newest last. A limit <= 0 returns all.
func (f *Feed) Recent(limit int) []events.BaseEvent {
	f.mu.RLock()
	defer f.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(f.items) {
		start = len(f.items) - limit
	}

	out := make([]events.BaseEvent, len(f.items)-start)
	copy(out, f.items[start:])

	return out
}
