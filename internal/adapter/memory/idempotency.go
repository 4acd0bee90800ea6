package memory

import (
	"context"
	"sync"

	portidem "github.com/mvolkov/dispatch/internal/port/idempotency"
)

var _ portidem.Store = (*Idempotency)(nil)

// Idempotency remembers bulk-intake results per key; first write wins.
type Idempotency struct {
	mu      sync.RWMutex
	results map[string][]byte
}

func NewIdempotency() *Idempotency {
	return &Idempotency{results: make(map[string][]byte)}
}

func (i *Idempotency) Check(_ context.Context, key string) ([]byte, bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	result, ok := i.results[key]
	return result, ok, nil
}

func (i *Idempotency) Store(_ context.Context, key, _ string, result []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.results[key]; !ok {
		i.results[key] = result
	}
	return nil
}
