// Package rendezvous pairs submitted numbers with waiting requesters: a
// process-local table of one-shot delivery slots, fed by a single fan-in
// task consuming the broker's pub/sub channels.
package rendezvous

import (
	"sync"

	"github.com/google/uuid"
)

// Table maps request ids to their delivery slots. An id is present iff its
// requester is still waiting in this process.
type Table struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*Slot
}

func NewTable() *Table {
	return &Table{slots: map[uuid.UUID]*Slot{}}
}

func (t *Table) Insert(id uuid.UUID, s *Slot) {
	t.mu.Lock()
	t.slots[id] = s
	t.mu.Unlock()
}

// Take removes and returns the slot for id, if any. At most one caller can
// obtain a given slot.
func (t *Table) Take(id uuid.UUID) (*Slot, bool) {
	t.mu.Lock()
	s, ok := t.slots[id]
	if ok {
		delete(t.slots, id)
	}
	t.mu.Unlock()
	return s, ok
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}
