package redis

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"time"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"
	"spearid-quiz-service/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CatalogCache caches catalog listings in Redis and falls back to the source on a miss.
// Listings are stored as JSON arrays under:
//
//	catalog:species
//	catalog:videos
type CatalogCache struct {
	client *redis.Client
	source app.CatalogRepository
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCatalogCache(client *redis.Client, source app.CatalogRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

func (c *CatalogCache) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	return cached(ctx, c, c.speciesKey(), c.source.ListSpecies)
}

func (c *CatalogCache) ListVideos(ctx context.Context) ([]domain.VideoAsset, error) {
	return cached(ctx, c, c.videosKey(), c.source.ListVideos)
}

// Invalidate removes the cached listings, e.g. after seeding the catalog.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.speciesKey(), c.videosKey()).Err()
}

func (c *CatalogCache) speciesKey() string {
	return "catalog:species"
}

func (c *CatalogCache) videosKey() string {
	return "catalog:videos"
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if items, ok := readListing[T](ctx, c.client, key); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if items, ok := readListing[T](ctx, c.client, key); ok {
			return items, nil
		}

		items, err := load(ctx)
		if err != nil {
			return nil, err
		}

		ttl := c.ttlWithJitter()
		if ttl > 0 {
			// best-effort; a failed write only costs a reload
			if raw, err := json.Marshal(items); err == nil {
				if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
					logger.Get().Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	// singleflight shares one slice between callers
	shared := result.([]T)
	out := make([]T, len(shared))
	copy(out, shared)
	return out, nil
}

func readListing[T any](ctx context.Context, client *redis.Client, key string) ([]T, bool) {
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Get().Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int64N(jitterMax+1))
}
