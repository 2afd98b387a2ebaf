package postgres

import (
	"context"
	"fmt"

	"spearid-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader reads the fish_species and fish_videos tables.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) ListSpecies(ctx context.Context) ([]domain.Species, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id::text, name, COALESCE(scientific_name, ''), COALESCE(region, '')
		FROM fish_species
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	species := []domain.Species{}
	for rows.Next() {
		var s domain.Species
		if err := rows.Scan(&s.ID, &s.Name, &s.ScientificName, &s.Region); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		species = append(species, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return species, nil
}

func (l *CatalogLoader) ListVideos(ctx context.Context) ([]domain.VideoAsset, error) {
	rows, err := l.pool.Query(ctx, `SELECT id::text, COALESCE(species_id::text, ''), file_path FROM fish_videos`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []domain.VideoAsset{}
	for rows.Next() {
		var v domain.VideoAsset
		if err := rows.Scan(&v.ID, &v.SpeciesID, &v.FilePath); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}
