// Package rediscache is a read-through TTL cache in front of the prop
// store's active-prop listing. The listing is re-read on every settlement
// scan and on the wager read path; the underlying table only changes when
// ingestion refreshes listings, so a short TTL takes the hot read off
// Postgres. Cache failures degrade to the inner store, never to an error.
package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"propledger/internal/repos/props"
)

const activeKey = "props:active"

type Cache struct {
	inner  props.Props
	client *redis.Client
	ttl    time.Duration
}

var _ props.Props = (*Cache)(nil)

func New(inner props.Props, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{inner: inner, client: client, ttl: ttl}
}

func (c *Cache) ActiveProps(ctx context.Context) ([]props.Prop, error) {
	raw, err := c.client.Get(ctx, activeKey).Bytes()
	if err == nil {
		var cached []props.Prop
		if jerr := json.Unmarshal(raw, &cached); jerr == nil {
			return cached, nil
		}
		// Corrupt payload: fall through and overwrite.
	} else if err != redis.Nil {
		slog.Warn("prop cache read failed", "error", err)
	}

	live, err := c.inner.ActiveProps(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(live)
	if err == nil {
		serr := c.client.Set(ctx, activeKey, b, c.ttl).Err()
		if serr != nil {
			slog.Warn("prop cache write failed", "error", serr)
		}
	}

	return live, nil
}

// Writes pass through and drop the cached listing so the next read is fresh.

func (c *Cache) Insert(ctx context.Context, p *props.Prop) error {
	err := c.inner.Insert(ctx, p)
	if err != nil {
		return err
	}

	c.invalidate(ctx)

	return nil
}

func (c *Cache) UpdateCurrentLine(ctx context.Context, propID string, line float64) error {
	err := c.inner.UpdateCurrentLine(ctx, propID, line)
	if err != nil {
		return err
	}

	c.invalidate(ctx)

	return nil
}

func (c *Cache) Deactivate(ctx context.Context, propID string) error {
	err := c.inner.Deactivate(ctx, propID)
	if err != nil {
		return err
	}

	c.invalidate(ctx)

	return nil
}

func (c *Cache) Get(ctx context.Context, propID string) (*props.Prop, error) {
	return c.inner.Get(ctx, propID)
}

func (c *Cache) invalidate(ctx context.Context) {
	err := c.client.Del(ctx, activeKey).Err()
	if err != nil {
		slog.Warn("prop cache invalidate failed", "error", err)
	}
}
