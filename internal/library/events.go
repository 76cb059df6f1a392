package library

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/zeroverload/SmartLib/internal/store"
)

type EventType string

// EventBookAvailable is published when a book becomes available for lending.
const EventBookAvailable EventType = "book.available"

type Event struct {
	Type       EventType
	BookID     int32
	OccurredAt time.Time
}

// Handler reacts to an event inside the transaction that published it. An
// error aborts the whole transaction.
type Handler func(tx *store.Tx, ev Event) error

type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[EventType][]Handler{}}
}

func (b *Bus) Subscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish runs the handlers of ev.Type in subscription order.
func (b *Bus) Publish(tx *store.Tx, ev Event) error {
	b.mu.RLock()
	handlers := b.handlers[ev.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(tx, ev); err != nil {
			return errors.Wrapf(err, "failed to handle %s", ev.Type)
		}
	}
	return nil
}
