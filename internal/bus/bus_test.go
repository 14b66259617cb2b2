package bus

import (
	"testing"

	"github.com/google/uuid"

	"randhub/internal/broker"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New(4)
	ch1, unsub1 := b.Subscribe()
	ch2, unsub2 := b.Subscribe()
	defer unsub1()
	defer unsub2()

	id := uuid.New()
	b.Publish(broker.Added(id))

	for _, ch := range []<-chan broker.StateUpdate{ch1, ch2} {
		u := <-ch
		if u.Kind != broker.UpdateAdded || u.ID != id {
			t.Fatalf("unexpected event: %+v", u)
		}
	}
}

func TestSubscriberEntersAtNow(t *testing.T) {
	b := New(4)
	b.Publish(broker.Added(uuid.New()))

	ch, unsub := b.Subscribe()
	defer unsub()

	select {
	case u := <-ch:
		t.Fatalf("subscriber saw event published before subscription: %+v", u)
	default:
	}
}

func TestLaggingSubscriberLosesOldest(t *testing.T) {
	b := New(2)
	ch, unsub := b.Subscribe()
	defer unsub()

	first := uuid.New()
	second := uuid.New()
	third := uuid.New()
	b.Publish(broker.Added(first))
	b.Publish(broker.Added(second))
	// Buffer full: publishing must not block, and the oldest event goes.
	b.Publish(broker.Added(third))

	u := <-ch
	if u.ID != second {
		t.Fatalf("expected oldest (%s) dropped, first delivered %s", first, u.ID)
	}
	u = <-ch
	if u.ID != third {
		t.Fatalf("expected %s, got %s", third, u.ID)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New(4)
	ch, unsub := b.Subscribe()
	unsub()
	unsub() // second call is harmless

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after unsubscribe")
	}
	if b.Subscribers() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", b.Subscribers())
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := New(4)
	ch, _ := b.Subscribe()
	b.Close()

	b.Publish(broker.Added(uuid.New()))
	if _, ok := <-ch; ok {
		t.Fatal("expected closed subscriber channel after Close")
	}

	// Subscribing after close yields an already-closed channel.
	ch2, unsub := b.Subscribe()
	defer unsub()
	if _, ok := <-ch2; ok {
		t.Fatal("expected closed channel for post-close subscriber")
	}
}
