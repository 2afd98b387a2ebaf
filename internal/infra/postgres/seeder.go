package postgres

import (
	"context"
	"fmt"

	"spearid-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

type speciesRow struct {
	bun.BaseModel `bun:"table:fish_species"`

	ID             string `bun:"id,pk"`
	Name           string `bun:"name,notnull"`
	ScientificName string `bun:"scientific_name,nullzero"`
	Region         string `bun:"region,nullzero"`
}

type videoRow struct {
	bun.BaseModel `bun:"table:fish_videos"`

	ID        string `bun:"id,pk"`
	SpeciesID string `bun:"species_id,nullzero"`
	FilePath  string `bun:"file_path,notnull"`
}

// Seeder upserts a catalog into Postgres.
type Seeder struct {
	db *bun.DB
}

func NewSeeder(db *bun.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed writes species before videos in a single transaction. Existing rows with
// the same id are overwritten.
func (s *Seeder) Seed(ctx context.Context, catalog domain.Catalog) error {
	species := make([]speciesRow, 0, len(catalog.Species))
	for _, sp := range catalog.Species {
		species = append(species, speciesRow{
			ID:             sp.ID,
			Name:           sp.Name,
			ScientificName: sp.ScientificName,
			Region:         sp.Region,
		})
	}
	videos := make([]videoRow, 0, len(catalog.Videos))
	for _, v := range catalog.Videos {
		videos = append(videos, videoRow{ID: v.ID, SpeciesID: v.SpeciesID, FilePath: v.FilePath})
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(species) > 0 {
			_, err := tx.NewInsert().
				Model(&species).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("scientific_name = EXCLUDED.scientific_name").
				Set("region = EXCLUDED.region").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("insert species: %w", err)
			}
		}
		if len(videos) > 0 {
			_, err := tx.NewInsert().
				Model(&videos).
				On("CONFLICT (id) DO UPDATE").
				Set("species_id = EXCLUDED.species_id").
				Set("file_path = EXCLUDED.file_path").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("insert videos: %w", err)
			}
		}
		return nil
	})
}
