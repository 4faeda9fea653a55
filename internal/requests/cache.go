package requests

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryCacheKey = "analytics:summary"

// Cache keeps the analytics summary warm in Redis so the dashboard and the
// requests page do not hit the upstream on every render. The warmup job
// refreshes it on an interval.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

// GetSummary returns the cached summary, or nil on a miss.
func (c *Cache) GetSummary(ctx context.Context) (*Summary, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, summaryCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetSummary stores the summary with the configured TTL.
func (c *Cache) SetSummary(ctx context.Context, summary Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryCacheKey, data, c.ttl).Err()
}
