package app

import (
	"context"

	"spearid-quiz-service/internal/domain"

	"golang.org/x/sync/errgroup"
)

// maxOptions is the number of answer choices per question when the catalog allows it.
const maxOptions = 4

// CatalogRepository lists the species and video tables of the backing store.
type CatalogRepository interface {
	// ListSpecies returns every species ordered by name.
	ListSpecies(ctx context.Context) ([]domain.Species, error)
	ListVideos(ctx context.Context) ([]domain.VideoAsset, error)
}

// VideoURLResolver maps a stored file path to a playable URL.
type VideoURLResolver interface {
	ResolveVideoURL(filePath string) string
}

// QuestionSource produces an ordered question set for a session.
type QuestionSource interface {
	Build(ctx context.Context, targetCount int) ([]domain.Question, error)
}

// QuestionBuilder turns the species/video catalog into a randomized question set.
type QuestionBuilder struct {
	catalog CatalogRepository
	urls    VideoURLResolver
	rnd     RandomSource
}

func NewQuestionBuilder(catalog CatalogRepository, urls VideoURLResolver, rnd RandomSource) *QuestionBuilder {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &QuestionBuilder{catalog: catalog, urls: urls, rnd: rnd}
}

// Build returns up to targetCount questions, one per distinct species name with footage.
// Catalog errors are returned as-is; an empty catalog yields an empty, non-nil slice.
func (b *QuestionBuilder) Build(ctx context.Context, targetCount int) ([]domain.Question, error) {
	if targetCount <= 0 {
		return nil, domain.ErrInvalidCount
	}

	var (
		species []domain.Species
		videos  []domain.VideoAsset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		species, err = b.catalog.ListSpecies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = b.catalog.ListVideos(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.assemble(species, videos, targetCount), nil
}

func (b *QuestionBuilder) assemble(species []domain.Species, videos []domain.VideoAsset, targetCount int) []domain.Question {
	videosBySpecies := make(map[string][]domain.VideoAsset)
	for _, v := range videos {
		if v.SpeciesID == "" {
			continue
		}
		videosBySpecies[v.SpeciesID] = append(videosBySpecies[v.SpeciesID], v)
	}

	// Rows sharing a display name would repeat the same answer, so the first one wins.
	eligible := make([]domain.Species, 0, len(species))
	eligibleNames := make(map[string]struct{}, len(species))
	for _, s := range species {
		if _, ok := videosBySpecies[s.ID]; !ok {
			continue
		}
		if _, dup := eligibleNames[s.Name]; dup {
			continue
		}
		eligibleNames[s.Name] = struct{}{}
		eligible = append(eligible, s)
	}

	names := distinctNames(species)
	picked := sample(b.rnd, eligible, targetCount)

	questions := make([]domain.Question, 0, len(picked))
	for _, s := range picked {
		video := sample(b.rnd, videosBySpecies[s.ID], 1)[0]
		options := shuffle(b.rnd, append([]string{s.Name}, b.distractors(names, s.Name)...))
		questions = append(questions, domain.Question{
			ID:            video.ID,
			VideoURL:      b.urls.ResolveVideoURL(video.FilePath),
			Options:       options,
			CorrectAnswer: s.Name,
		})
	}
	return questions
}

// distractors draws wrong answers from the whole catalog, not only species with footage.
func (b *QuestionBuilder) distractors(names []string, correct string) []string {
	pool := make([]string, 0, len(names))
	for _, n := range names {
		if n != correct {
			pool = append(pool, n)
		}
	}
	return sample(b.rnd, pool, maxOptions-1)
}

// distinctNames keeps the first occurrence of each display name.
func distinctNames(species []domain.Species) []string {
	seen := make(map[string]struct{}, len(species))
	names := make([]string, 0, len(species))
	for _, s := range species {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		names = append(names, s.Name)
	}
	return names
}
