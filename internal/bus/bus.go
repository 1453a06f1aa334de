// Package bus is a minimal in-process publish/subscribe event bus.
// Subscriptions are registered once at startup; publish fans out to every
// handler concurrently and contains each handler's failures.
package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Handler processes one published event payload.
type Handler func(ctx context.Context, payload any) error

// PublishResult makes partial fan-out failure explicit instead of silently
// swallowing handler errors.
type PublishResult struct {
	Handlers int
	Failed   int
	Errs     []error
}

// Bus maps event kinds to their ordered handler lists. The subscription
// table is append-only for the process lifetime.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[Kind][]Handler
}

func New() *Bus {
	return &Bus{subscribers: make(map[Kind][]Handler)}
}

// Subscribe appends a handler for the given kind.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[kind] = append(b.subscribers[kind], h)
}

// Publish runs every subscribed handler in its own goroutine with the same
// payload and waits for all of them. A handler's error or panic is logged and
// counted; it neither cancels sibling handlers nor reaches the publisher.
// Publishing a kind nobody subscribed to is a no-op.
func (b *Bus) Publish(ctx context.Context, kind Kind, payload any) PublishResult {
	b.mu.RLock()
	handlers := b.subscribers[kind]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return PublishResult{}
	}

	var (
		wg     sync.WaitGroup
		errsMu sync.Mutex
		errs   []error
	)

	for i, h := range handlers {
		wg.Add(1)
		go func(idx int, h Handler) {
			defer wg.Done()

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("handler panic: %v", r)
					}
				}()
				return h(ctx, payload)
			}()

			if err != nil {
				log.Error().Err(err).Str("kind", string(kind)).Int("handler", idx).
					Msg("bus: handler failed")
				errsMu.Lock()
				errs = append(errs, err)
				errsMu.Unlock()
			}
		}(i, h)
	}
	wg.Wait()

	return PublishResult{Handlers: len(handlers), Failed: len(errs), Errs: errs}
}
