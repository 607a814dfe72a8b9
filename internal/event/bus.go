// Package event carries change notifications between the ledger, the
// wallet and the statistics binding. Events deliberately carry no
// payload: subscribers re-read the source that changed instead of
// trusting a possibly stale message body.
package event

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Type string

const (
	TypeWalletChanged Type = "wallet.changed"
	TypeTasksChanged  Type = "ledger.tasks"
	TypeVotesChanged  Type = "ledger.votes"
)

type Event struct {
	Type Type
	At   time.Time
}

type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous in-process pub-sub bus. Handlers run on the
// publishing goroutine, in registration order per type.
type Bus struct {
	logger zerolog.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[Type][]subscription
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		logger: logger,
		subs:   make(map[Type][]subscription),
	}
}

// Subscribe registers a handler for one event type and returns an id
// usable with Unsubscribe.
func (b *Bus) Subscribe(eventType Type, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[eventType] = append(b.subs[eventType], subscription{
		id:      b.nextID,
		handler: handler,
	})
	return b.nextID
}

// Unsubscribe removes a subscription by id and reports whether it was
// still registered.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subs {
		for i, sub := range subs {
			if sub.id == id {
				b.subs[eventType] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish dispatches the event to every handler subscribed to its
// type. A panicking handler is recovered and logged so it cannot
// starve the remaining handlers.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]subscription, len(b.subs[ev.Type]))
	copy(handlers, b.subs[ev.Type])
	b.mu.RUnlock()

	for _, sub := range handlers {
		b.dispatch(sub.handler, ev)
	}
}

func (b *Bus) dispatch(handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("event", string(ev.Type)).
				Msg("event handler panicked")
		}
	}()
	handler(ev)
}
