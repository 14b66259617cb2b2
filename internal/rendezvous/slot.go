package rendezvous

import (
	"context"
	"sync"
)

// Slot is a one-shot delivery cell: completed at most once with a submitted
// number, awaited by exactly one requester.
type Slot struct {
	once  sync.Once
	done  chan struct{}
	value string
}

func NewSlot() *Slot {
	return &Slot{done: make(chan struct{})}
}

// Deliver completes the slot. Duplicate deliveries are dropped; delivering
// to a slot whose waiter already gave up is harmless.
func (s *Slot) Deliver(number string) {
	s.once.Do(func() {
		s.value = number
		close(s.done)
	})
}

// Wait blocks until the slot is delivered or ctx is done.
func (s *Slot) Wait(ctx context.Context) (string, error) {
	select {
	case <-s.done:
		return s.value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
