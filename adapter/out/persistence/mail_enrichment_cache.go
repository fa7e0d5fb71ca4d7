package persistence

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
)

const enrichmentKeyPrefix = "enrich:msg:"

// RedisEnrichmentCache implements out.EnrichmentCache on Redis with a TTL.
// Entries are a cache of computed enrichment, never the source of truth.
type RedisEnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEnrichmentCache creates a new RedisEnrichmentCache.
func NewRedisEnrichmentCache(client *redis.Client, ttl time.Duration) *RedisEnrichmentCache {
	return &RedisEnrichmentCache{client: client, ttl: ttl}
}

// GetEnrichment returns the cached enrichment for a message id, or found=false
// on a miss. Unmarshalable entries are treated as misses.
func (c *RedisEnrichmentCache) GetEnrichment(ctx context.Context, id string) (*domain.Enrichment, bool, error) {
	data, err := c.client.Get(ctx, enrichmentKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var enr domain.Enrichment
	if err := json.Unmarshal([]byte(data), &enr); err != nil {
		return nil, false, nil
	}
	return &enr, true, nil
}

// SetEnrichment stores the enrichment for a message id with the cache TTL.
func (c *RedisEnrichmentCache) SetEnrichment(ctx context.Context, id string, enr *domain.Enrichment) error {
	data, err := json.Marshal(enr)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, enrichmentKeyPrefix+id, data, c.ttl).Err()
}

var _ out.EnrichmentCache = (*RedisEnrichmentCache)(nil)
