package redis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"spearid-quiz-service/internal/domain"
	"spearid-quiz-service/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCatalogCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	source := &countingCatalog{StaticCatalog: memory.NewStaticCatalog(sampleCatalog())}
	cache := NewCatalogCache(client, source, time.Minute)

	species, err := cache.ListSpecies(context.Background())
	if err != nil {
		t.Fatalf("list species: %v", err)
	}
	if len(species) != 2 || species[0].Name != "Kingfish" {
		t.Fatalf("unexpected species %+v", species)
	}
	if !mr.Exists("catalog:species") {
		t.Fatalf("expected species listing cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	_, _ = cache.ListSpecies(context.Background())
	if source.species.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", source.species.Load())
	}

	videos, err := cache.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if len(videos) != 1 || videos[0].SpeciesID != "s1" {
		t.Fatalf("unexpected videos %+v", videos)
	}
}

func TestCatalogCacheExpiresAndInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingCatalog{StaticCatalog: memory.NewStaticCatalog(sampleCatalog())}
	cache := NewCatalogCache(newClient(mr), source, time.Minute)

	_, _ = cache.ListVideos(context.Background())
	mr.FastForward(2 * time.Minute)
	_, _ = cache.ListVideos(context.Background())
	if source.videos.Load() != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", source.videos.Load())
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("catalog:videos") {
		t.Fatalf("expected videos key removed")
	}
}

func TestCatalogCachePropagatesSourceErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	boom := errors.New("db down")
	cache := NewCatalogCache(newClient(mr), failingCatalog{err: boom}, time.Minute)

	if _, err := cache.ListSpecies(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if mr.Exists("catalog:species") {
		t.Fatalf("errors must not be cached")
	}
}

func TestCatalogCacheFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	cache := NewCatalogCache(client, memory.NewStaticCatalog(sampleCatalog()), time.Minute)
	species, err := cache.ListSpecies(context.Background())
	if err != nil {
		t.Fatalf("expected source fallback, got %v", err)
	}
	if len(species) != 2 {
		t.Fatalf("unexpected species %+v", species)
	}
}

type countingCatalog struct {
	*memory.StaticCatalog
	species atomic.Int32
	videos  atomic.Int32
}

func (c *countingCatalog) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	c.species.Add(1)
	return c.StaticCatalog.ListSpecies(ctx)
}

func (c *countingCatalog) ListVideos(ctx context.Context) ([]domain.VideoAsset, error) {
	c.videos.Add(1)
	return c.StaticCatalog.ListVideos(ctx)
}

type failingCatalog struct {
	err error
}

func (c failingCatalog) ListSpecies(context.Context) ([]domain.Species, error) {
	return nil, c.err
}

func (c failingCatalog) ListVideos(context.Context) ([]domain.VideoAsset, error) {
	return nil, c.err
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Species: []domain.Species{
			{ID: "s2", Name: "Snapper"},
			{ID: "s1", Name: "Kingfish"},
		},
		Videos: []domain.VideoAsset{
			{ID: "v1", SpeciesID: "s1", FilePath: "kingfish/1.mp4"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
