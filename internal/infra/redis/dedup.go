package redis

import (
	"context"
	"fmt"
	"time"
)

// Deduper drops retried provider updates. Update ids are remembered with
// SETNX under a TTL; the first writer wins, later deliveries of the same id
// are reported as seen.
type Deduper struct {
	client RedisClient
	ttl    time.Duration
}

func NewDeduper(client RedisClient, ttl time.Duration) *Deduper {
	return &Deduper{client: client, ttl: ttl}
}

func (d *Deduper) Seen(ctx context.Context, botID string, updateID int64) (bool, error) {
	key := fmt.Sprintf("update:%s:%d", botID, updateID)
	set, err := d.client.SetNX(ctx, key, 1, d.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}
