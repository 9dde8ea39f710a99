package app

import (
	"context"
	"log"
	"time"

	"miniblog/internal/model"
)

type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityLog) error
}

// publishActivity reports a committed change. Delivery is best-effort: the
// change already happened, so failures are only logged.
func publishActivity(ctx context.Context, publisher ActivityPublisher, event model.ActivityLog) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("publish activity %s failed: %v", event.Kind, err)
	}
}
