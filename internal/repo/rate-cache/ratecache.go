// Package ratecache keeps the active daily rate in Redis so conversion
// previews and transaction creation do not hit Postgres on every request.
package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tkamdem/stablex/internal/domain"
)

const keyPrefix = "daily_rate:"

// ErrMiss is returned when the requested date is not cached.
var ErrMiss = errors.New("rate not cached")

// Cache is a read-through cache keyed by calendar date. A nil client is
// valid and behaves as a permanent miss, so callers work unchanged when
// Redis is not configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(date time.Time) string {
	return keyPrefix + date.UTC().Format("2006-01-02")
}

// Get returns the cached rate for the given date, or ErrMiss.
func (c *Cache) Get(ctx context.Context, date time.Time) (*domain.DailyRate, error) {
	if c == nil || c.client == nil {
		return nil, ErrMiss
	}

	raw, err := c.client.Get(ctx, key(date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("rate cache get: %w", err)
	}

	var rate domain.DailyRate
	if err := json.Unmarshal([]byte(raw), &rate); err != nil {
		return nil, fmt.Errorf("rate cache decode: %w", err)
	}
	return &rate, nil
}

// Set stores the rate under its calendar date.
func (c *Cache) Set(ctx context.Context, rate *domain.DailyRate) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("rate cache encode: %w", err)
	}
	return c.client.Set(ctx, key(rate.RateDate), raw, c.ttl).Err()
}

// Invalidate drops the cached entry for the given date.
func (c *Cache) Invalidate(ctx context.Context, date time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(date)).Err()
}
