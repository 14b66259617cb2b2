package broker

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb)
}

func TestPendingQueueFIFO(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	if err := c.Enqueue(ctx, first); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Enqueue(ctx, second); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	id, ok, err := c.PopOldest(ctx)
	if err != nil || !ok {
		t.Fatalf("pop: ok=%v err=%v", ok, err)
	}
	if id != first {
		t.Fatalf("expected oldest waiter %s, got %s", first, id)
	}

	id, ok, err = c.PopOldest(ctx)
	if err != nil || !ok || id != second {
		t.Fatalf("expected %s, got %s (ok=%v err=%v)", second, id, ok, err)
	}
}

func TestPopOldestEmpty(t *testing.T) {
	c := newTestClient(t)

	_, ok, err := c.PopOldest(context.Background())
	if err != nil {
		t.Fatalf("pop on empty queue: %v", err)
	}
	if ok {
		t.Fatal("expected no waiter")
	}
}

func TestRemovePending(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	stay := uuid.New()
	gone := uuid.New()
	c.Enqueue(ctx, stay)
	c.Enqueue(ctx, gone)

	if err := c.RemovePending(ctx, gone); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// Removing an absent id is a no-op.
	if err := c.RemovePending(ctx, gone); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	ids, err := c.SnapshotPending(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(ids) != 1 || ids[0] != stay {
		t.Fatalf("unexpected snapshot: %v", ids)
	}
}

func TestSnapshotSkipsGarbageEntries(t *testing.T) {
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { rdb.Close() })
	c := New(rdb)
	ctx := context.Background()

	id := uuid.New()
	c.Enqueue(ctx, id)
	m.Lpush("pending_callbacks", "not-a-uuid")

	ids, err := c.SnapshotPending(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("unexpected snapshot: %v", ids)
	}
}

func TestCounts(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := c.IncrementCount(ctx, "42"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := c.IncrementCount(ctx, "7"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	counts, err := c.TopCounts(ctx, 10)
	if err != nil {
		t.Fatalf("top counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(counts))
	}
	if counts[0].Number != "42" || counts[0].Matches != 3 {
		t.Fatalf("unexpected top entry: %+v", counts[0])
	}
}

func TestPing(t *testing.T) {
	m := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { rdb.Close() })
	c := New(rdb)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	m.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure after broker shutdown")
	}
}
