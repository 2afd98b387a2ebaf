package memory

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

const (
	speciesKey = "species"
	videosKey  = "videos"
)

// CatalogCache caches catalog listings with TTL to avoid repeated DB hits.
type CatalogCache struct {
	source app.CatalogRepository
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedListing
}

type cachedListing struct {
	value     any
	expiresAt time.Time
}

func NewCatalogCache(source app.CatalogRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[string]cachedListing),
	}
}

func (c *CatalogCache) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	species, err := cached(ctx, c, speciesKey, c.source.ListSpecies)
	return slices.Clone(species), err
}

func (c *CatalogCache) ListVideos(ctx context.Context) ([]domain.VideoAsset, error) {
	videos, err := cached(ctx, c, videosKey, c.source.ListVideos)
	return slices.Clone(videos), err
}

// Invalidate drops every cached listing.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cachedListing)
	c.mu.Unlock()
}

func (c *CatalogCache) lookup(key string, now time.Time) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.value, true
}

func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(key, c.clock()); ok {
		return v.(T), nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		// Re-check cache in case another goroutine filled it.
		if v, ok := c.lookup(key, now); ok {
			return v, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = cachedListing{value: value, expiresAt: now.Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func (c *CatalogCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int64N(jitterMax+1))
}
