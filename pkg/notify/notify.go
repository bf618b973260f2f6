// Package notify turns workflow submission outcomes into notifications for the presentation shell.
package notify

import (
	"context"
	"log/slog"

	"github.com/dukex/leadflow/pkg/eventbus"
)

// Notifier receives notification events from the form controller.
type Notifier interface {
	Notify(ctx context.Context, key string, event eventbus.Event)
}

// BusNotifier publishes notifications on the event bus. Publishing failures are
// logged and never reach the submitter.
type BusNotifier struct {
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

func NewBusNotifier(publisher eventbus.EventPublisher, logger *slog.Logger) *BusNotifier {
	return &BusNotifier{
		publisher: publisher,
		logger:    logger.With("module", "notifier"),
	}
}

func (n *BusNotifier) Notify(ctx context.Context, key string, event eventbus.Event) {
	if err := n.publisher.Publish(ctx, key, event); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish notification", "type", event.GetType(), "key", key, "error", err)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, string, eventbus.Event) {}
