package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "availability"
	versionKey = "availability:ver"
)

// AvailabilityCache is a display-only snapshot cache in front of the
// availability query. It is never consulted on the hold or commit paths, so a
// stale entry can only ever show a slot as open that a later hold attempt
// will reject.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, cfg config.RedisConfig) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: cfg.CacheTTL}
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

func (c *AvailabilityCache) Get(ctx context.Context, from, to time.Time) ([]readstore.SlotAvailabilityView, bool) {
	key, err := c.rangeKey(ctx, from, to)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("availability cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var views []readstore.SlotAvailabilityView
	if err := json.Unmarshal(raw, &views); err != nil {
		slog.Warn("availability cache entry is corrupt", "key", key, "error", err.Error())
		return nil, false
	}
	return views, true
}

func (c *AvailabilityCache) Set(ctx context.Context, from, to time.Time, views []readstore.SlotAvailabilityView) {
	key, err := c.rangeKey(ctx, from, to)
	if err != nil {
		return
	}

	raw, err := json.Marshal(views)
	if err != nil {
		slog.Warn("failed to marshal availability snapshot", "error", err.Error())
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("availability cache write failed", "key", key, "error", err.Error())
	}
}

// Invalidate bumps the namespace version so every cached range misses on the
// next read. Old entries fall out via their TTL.
func (c *AvailabilityCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		slog.Warn("availability cache invalidation failed", "error", err.Error())
	}
}

func (c *AvailabilityCache) rangeKey(ctx context.Context, from, to time.Time) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s:%s",
		keyPrefix, ver, from.Format(time.DateOnly), to.Format(time.DateOnly)), nil
}
