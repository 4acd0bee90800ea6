package memory

import (
	"context"
	"sync"

	"github.com/mvolkov/dispatch/internal/domain/event"
	porteventbus "github.com/mvolkov/dispatch/internal/port/eventbus"
)

var _ porteventbus.EventBus = (*Bus)(nil)

// Bus is a process-local event bus. Handlers run synchronously on the
// publisher's goroutine, which keeps tests deterministic; handlers must not
// block.
type Bus struct {
	mu   sync.RWMutex
	subs map[event.Channel]map[*busSubscription]porteventbus.Handler
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[event.Channel]map[*busSubscription]porteventbus.Handler),
	}
}

func (b *Bus) Publish(ctx context.Context, e event.Event) error {
	ch := event.ChannelFor(e.Type)

	b.mu.RLock()
	handlers := make([]porteventbus.Handler, 0, len(b.subs[ch]))
	for _, h := range b.subs[ch] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	return nil
}

func (b *Bus) Subscribe(_ context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	sub := &busSubscription{bus: b, ch: ch}

	b.mu.Lock()
	if b.subs[ch] == nil {
		b.subs[ch] = make(map[*busSubscription]porteventbus.Handler)
	}
	b.subs[ch][sub] = handler
	b.mu.Unlock()

	return sub, nil
}

type busSubscription struct {
	bus *Bus
	ch  event.Channel
}

func (s *busSubscription) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subs[s.ch], s)
	s.bus.mu.Unlock()
}
