// Package cache provides the Redis-backed read cache for catalog entities.
// Caching is best-effort: a Redis failure degrades to database reads and is
// logged, never surfaced to the caller.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stocklink/internal/core/id"
	"stocklink/pkg/logger"
)

const defaultTTL = 5 * time.Minute

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// EntityCache caches serialized entities keyed by type and ID.
type EntityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEntityCache creates an entity cache with the default TTL.
func NewEntityCache(client *redis.Client) *EntityCache {
	return &EntityCache{
		client: client,
		ttl:    defaultTTL,
	}
}

func entityKey(entityType string, entityID id.ID) string {
	return "entity:" + entityType + ":" + entityID.String()
}

// Get loads a cached entity into dest. Returns false on miss or error.
func (c *EntityCache) Get(ctx context.Context, entityType string, entityID id.ID, dest any) bool {
	data, err := c.client.Get(ctx, entityKey(entityType, entityID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx, "cache get failed", "entity", entityType, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn(ctx, "cache unmarshal failed", "entity", entityType, "error", err)
		return false
	}

	return true
}

// Set stores an entity. Failures are logged and ignored.
func (c *EntityCache) Set(ctx context.Context, entityType string, entityID id.ID, entity any) {
	data, err := json.Marshal(entity)
	if err != nil {
		logger.Warn(ctx, "cache marshal failed", "entity", entityType, "error", err)
		return
	}

	if err := c.client.Set(ctx, entityKey(entityType, entityID), data, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "cache set failed", "entity", entityType, "error", err)
	}
}

// Invalidate drops the cached entry for an entity. Wired as an after-hook on
// update and delete.
func (c *EntityCache) Invalidate(ctx context.Context, entityType string, entityID id.ID) {
	if err := c.client.Del(ctx, entityKey(entityType, entityID)).Err(); err != nil {
		logger.Warn(ctx, "cache invalidate failed", "entity", entityType, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *EntityCache) Close() error {
	return c.client.Close()
}
