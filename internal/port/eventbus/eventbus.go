package eventbus

import (
	"context"

	"github.com/mvolkov/dispatch/internal/domain/event"
)

type Handler func(ctx context.Context, e event.Event)

type Subscription interface {
	Unsubscribe()
}

// EventBus fans domain events out to subscribers of a channel. Publishing is
// best-effort: callers log failures but never fail the triggering operation.
type EventBus interface {
	Publish(ctx context.Context, e event.Event) error
	Subscribe(ctx context.Context, ch event.Channel, handler Handler) (Subscription, error)
}
