package rendezvous

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"randhub/internal/broker"
	"randhub/internal/bus"
)

// FanIn is the single per-process consumer of the broker's callbacks and
// state_updates channels. Callback messages are routed into the local
// table; state updates are forwarded to the observer bus.
type FanIn struct {
	broker  *broker.Client
	table   *Table
	bus     *bus.Bus
	healthy atomic.Bool
}

func NewFanIn(b *broker.Client, t *Table, sb *bus.Bus) *FanIn {
	return &FanIn{broker: b, table: t, bus: sb}
}

// Healthy reports whether the subscription is currently established. While
// false the process cannot complete rendezvous and should fail health checks.
func (f *FanIn) Healthy() bool {
	return f.healthy.Load()
}

// Run consumes broker messages until ctx is cancelled. If the pub/sub
// stream ends it resubscribes with capped exponential backoff.
func (f *FanIn) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if err := f.consume(ctx); err != nil && ctx.Err() == nil {
			log.Printf("rendezvous: pubsub stream ended: %v", err)
		}
		f.healthy.Store(false)
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (f *FanIn) consume(ctx context.Context) error {
	sub := f.broker.Subscribe(ctx)
	defer sub.Close()

	// Confirm the subscription before reporting the process healthy.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	f.healthy.Store(true)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("subscription channel closed")
			}
			f.route(msg.Channel, msg.Payload)
		}
	}
}

// route dispatches one message. Malformed payloads are logged and dropped;
// a bad message must never take the task down.
func (f *FanIn) route(channel, payload string) {
	switch channel {
	case broker.CallbacksChannel:
		var m broker.CallbackMessage
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			log.Printf("rendezvous: bad callback payload: %v", err)
			return
		}
		slot, ok := f.table.Take(m.ID)
		if !ok {
			// Waiter owned by another instance, or already gone.
			return
		}
		slot.Deliver(m.Number)
	case broker.StateUpdatesChannel:
		var u broker.StateUpdate
		if err := json.Unmarshal([]byte(payload), &u); err != nil {
			log.Printf("rendezvous: bad state update payload: %v", err)
			return
		}
		f.bus.Publish(u)
	}
}
