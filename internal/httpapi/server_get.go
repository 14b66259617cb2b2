package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"randhub/internal/broker"
	"randhub/internal/rendezvous"
)

// handleGetRandom is the requester side of the rendezvous: it parks the
// caller until a provider's number is routed to its slot, the wait times
// out, or the caller disconnects.
func (s *server) handleGetRandom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := strings.TrimSpace(r.Header.Get(RequestIDHeader))
	id, err := uuid.Parse(raw)
	if err != nil {
		// The header is injected upstream; a missing or mangled one means
		// broken middleware wiring, not a user mistake.
		logError(ctx, "get: bad x-request-id header", err)
		http.Error(w, "invalid x-request-id header", http.StatusBadRequest)
		return
	}

	// Slot before queue entry: a provider that pops this id must be
	// guaranteed a listener exists.
	slot := rendezvous.NewSlot()
	s.table.Insert(id, slot)

	if err := s.broker.Enqueue(ctx, id); err != nil {
		s.table.Take(id)
		logError(ctx, "get: enqueue failed", err)
		http.Error(w, "broker unavailable", http.StatusInternalServerError)
		return
	}

	// From here the waiter is visible to providers and observers; the
	// sentinel guarantees removal on every exit path, exactly once.
	cleanup := s.newWaiterCleanup(id)
	defer cleanup.run()

	if err := s.broker.PublishStateUpdate(ctx, broker.Added(id)); err != nil {
		logError(ctx, "get: publish added failed", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.waitTimeout)
	defer cancel()

	number, err := slot.Wait(waitCtx)
	if err != nil {
		cleanup.run()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			w.Header().Set("Connection", "close")
			http.Error(w, "no number arrived in time", http.StatusRequestTimeout)
		}
		// Otherwise the client went away; there is nobody to answer.
		return
	}

	cleanup.run()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(number + "\n")); err != nil {
		logError(ctx, "get: write response failed", err)
	}
}

// waiterCleanup removes a waiter from the shared queue and the local
// table and announces the removal. Idempotent via sync.Once so the
// success, timeout, and disconnect paths can all call it.
type waiterCleanup struct {
	once sync.Once
	s    *server
	id   uuid.UUID
}

func (s *server) newWaiterCleanup(id uuid.UUID) *waiterCleanup {
	return &waiterCleanup{s: s, id: id}
}

func (c *waiterCleanup) run() {
	c.once.Do(func() {
		// The request context may already be cancelled when cleaning up
		// after a disconnect; use a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := c.s.broker.RemovePending(ctx, c.id); err != nil {
			logErrorNoCtx("get: remove pending failed", err)
		}
		if err := c.s.broker.PublishStateUpdate(ctx, broker.Removed(c.id)); err != nil {
			logErrorNoCtx("get: publish removed failed", err)
		}
		c.s.table.Take(c.id)
	})
}
