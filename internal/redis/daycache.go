package redisclient

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DayCache is a short-TTL cache of one day's appointment snapshot, keyed by
// calendar date. Writers invalidate after every appointment mutation, so a
// stale entry can only survive for the TTL on nodes that missed the
// invalidation. All failures degrade to a cache miss.
type DayCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDayCache(client *redis.Client, ttl time.Duration) *DayCache {
	return &DayCache{client: client, ttl: ttl}
}

func dayKey(date string) string {
	return "schedule:day:" + date
}

func (c *DayCache) Get(ctx context.Context, date string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, dayKey(date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("day cache get %s: %v", date, err)
		}
		return nil, false
	}
	return payload, true
}

func (c *DayCache) Set(ctx context.Context, date string, payload []byte) {
	if err := c.client.Set(ctx, dayKey(date), payload, c.ttl).Err(); err != nil {
		log.Printf("day cache set %s: %v", date, err)
	}
}

func (c *DayCache) Invalidate(ctx context.Context, date string) {
	if err := c.client.Del(ctx, dayKey(date)).Err(); err != nil {
		log.Printf("day cache invalidate %s: %v", date, err)
	}
}
