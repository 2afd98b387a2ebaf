package memory

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"spearid-quiz-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// StaticCatalog is a catalog backed by an in-memory listing (useful for tests/demos).
type StaticCatalog struct {
	species []domain.Species
	videos  []domain.VideoAsset
}

func NewStaticCatalog(catalog domain.Catalog) *StaticCatalog {
	species := slices.Clone(catalog.Species)
	slices.SortStableFunc(species, func(a, b domain.Species) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &StaticCatalog{species: species, videos: slices.Clone(catalog.Videos)}
}

func (c *StaticCatalog) ListSpecies(_ context.Context) ([]domain.Species, error) {
	return slices.Clone(c.species), nil
}

func (c *StaticCatalog) ListVideos(_ context.Context) ([]domain.VideoAsset, error) {
	return slices.Clone(c.videos), nil
}

// LoadCatalogFile reads a YAML catalog with top-level species and videos lists.
func LoadCatalogFile(path string) (domain.Catalog, error) {
	var catalog domain.Catalog
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog, err
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return catalog, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return catalog, nil
}
