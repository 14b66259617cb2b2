// Package broker wraps the Redis backend shared by all service instances:
// the pending-request list, the callbacks and state_updates pub/sub
// channels, and the counts tally.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingKey = "pending_callbacks"
	countsKey  = "counts"

	// CallbacksChannel carries CallbackMessage payloads.
	CallbacksChannel = "callbacks"
	// StateUpdatesChannel carries StateUpdate payloads.
	StateUpdatesChannel = "state_updates"
)

type Client struct {
	rdb *redis.Client
}

func Open(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{rdb: redis.NewClient(opts)}, nil
}

func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Subscribe opens the process-wide subscription consumed by the fan-in task.
func (c *Client) Subscribe(ctx context.Context) *redis.PubSub {
	return c.rdb.Subscribe(ctx, CallbacksChannel, StateUpdatesChannel)
}

// Enqueue pushes a request id at the head of the pending list.
func (c *Client) Enqueue(ctx context.Context, id uuid.UUID) error {
	return c.rdb.LPush(ctx, pendingKey, id.String()).Err()
}

// PopOldest pops the oldest waiting request id from the tail of the
// pending list. ok is false when the list is empty.
func (c *Client) PopOldest(ctx context.Context) (id uuid.UUID, ok bool, err error) {
	v, err := c.rdb.RPop(ctx, pendingKey).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	id, err = uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("pending list entry %q: %w", v, err)
	}
	return id, true, nil
}

// RemovePending removes the first occurrence of id from the pending list.
// Removing an id that is no longer present is not an error.
func (c *Client) RemovePending(ctx context.Context, id uuid.UUID) error {
	return c.rdb.LRem(ctx, pendingKey, 1, id.String()).Err()
}

// SnapshotPending returns all waiting request ids, newest first.
// Entries that do not parse as UUIDs are skipped.
func (c *Client) SnapshotPending(ctx context.Context) ([]uuid.UUID, error) {
	vals, err := c.rdb.LRange(ctx, pendingKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(vals))
	for _, v := range vals {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *Client) PublishCallback(ctx context.Context, id uuid.UUID, number string) error {
	payload, err := json.Marshal(CallbackMessage{ID: id, Number: number})
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, CallbacksChannel, payload).Err()
}

func (c *Client) PublishStateUpdate(ctx context.Context, u StateUpdate) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, StateUpdatesChannel, payload).Err()
}

// IncrementCount bumps the tally for a matched number. Best-effort: the
// rendezvous does not depend on it.
func (c *Client) IncrementCount(ctx context.Context, number string) error {
	return c.rdb.ZIncrBy(ctx, countsKey, 1, number).Err()
}

type Count struct {
	Number  string
	Matches int64
}

// TopCounts returns the most-matched numbers, highest first.
func (c *Client) TopCounts(ctx context.Context, n int64) ([]Count, error) {
	zs, err := c.rdb.ZRevRangeWithScores(ctx, countsKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	counts := make([]Count, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		counts = append(counts, Count{Number: member, Matches: int64(z.Score)})
	}
	return counts, nil
}
