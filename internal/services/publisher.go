package services

import (
	"context"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/events"
)

// EventPublisher broadcasts service events to connected clients
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.Event) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
