// Package bus fans queue-change events out to websocket observers within
// one process.
package bus

import (
	"sync"

	"randhub/internal/broker"
)

// Bus is a multi-producer multi-consumer broadcast channel. Publishing
// never blocks: a subscriber whose buffer is full loses its oldest
// undelivered event.
type Bus struct {
	mu       sync.RWMutex
	subs     map[uint64]chan broker.StateUpdate
	nextID   uint64
	capacity int
	closed   bool
}

func New(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		subs:     map[uint64]chan broker.StateUpdate{},
		capacity: capacity,
	}
}

// Subscribe returns a channel of events published after this call, plus an
// unsubscribe function. Unsubscribing closes the channel.
func (b *Bus) Subscribe() (<-chan broker.StateUpdate, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan broker.StateUpdate, b.capacity)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, unsub
}

// Publish delivers u to every subscriber without blocking. A lagging
// subscriber's oldest buffered event is discarded to make room.
func (b *Bus) Publish(u broker.StateUpdate) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- u:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
