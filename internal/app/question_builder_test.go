package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"spearid-quiz-service/internal/app"
	"spearid-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPicksDistinctSpecies(t *testing.T) {
	catalog := newFakeCatalog(20, 5)
	builder := app.NewQuestionBuilder(catalog, prefixResolver("https://cdn/"), rand.New(rand.NewPCG(1, 1)))

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, questions, 12)

	seen := make(map[string]bool)
	for _, q := range questions {
		assert.False(t, seen[q.CorrectAnswer], "species %s asked twice", q.CorrectAnswer)
		seen[q.CorrectAnswer] = true

		video, ok := catalog.video(q.ID)
		require.True(t, ok, "question id %s is not a video id", q.ID)
		assert.Equal(t, catalog.nameOf(video.SpeciesID), q.CorrectAnswer)
		assert.Equal(t, "https://cdn/"+video.FilePath, q.VideoURL)
		assertValidOptions(t, q, 4)
	}
}

func TestBuildLimitedByEligibleSpecies(t *testing.T) {
	builder := app.NewQuestionBuilder(newFakeCatalog(3, 10), prefixResolver(""), rand.New(rand.NewPCG(2, 2)))

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
	for _, q := range questions {
		assert.Contains(t, []string{"Species 00", "Species 01", "Species 02"}, q.CorrectAnswer)
	}
}

func TestBuildDrawsDistractorsFromWholeCatalog(t *testing.T) {
	catalog := newFakeCatalog(1, 3)
	builder := app.NewQuestionBuilder(catalog, prefixResolver(""), rand.New(rand.NewPCG(3, 3)))

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "Species 00", q.CorrectAnswer)
	assertValidOptions(t, q, 4)
	for _, option := range q.Options {
		assert.NotEmpty(t, catalog.idOf(option), "option %q is not a catalog species", option)
	}
}

func TestBuildWithTwoSpeciesHasTwoOptions(t *testing.T) {
	builder := app.NewQuestionBuilder(newFakeCatalog(2, 0), prefixResolver(""), rand.New(rand.NewPCG(4, 4)))

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assertValidOptions(t, q, 2)
	}
}

func TestBuildWithSingleSpeciesOffersOnlyTheAnswer(t *testing.T) {
	builder := app.NewQuestionBuilder(newFakeCatalog(1, 0), prefixResolver(""), nil)

	questions, err := builder.Build(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, []string{"Species 00"}, questions[0].Options)
}

func TestBuildDeduplicatesOptionNames(t *testing.T) {
	catalog := &fakeCatalog{
		species: []domain.Species{
			{ID: "a", Name: "Bream"},
			{ID: "b", Name: "Bream"},
			{ID: "c", Name: "Snapper"},
		},
		videos: []domain.VideoAsset{
			{ID: "v1", SpeciesID: "a", FilePath: "a.mp4"},
			{ID: "v2", SpeciesID: "c", FilePath: "c.mp4"},
		},
	}
	builder := app.NewQuestionBuilder(catalog, prefixResolver(""), rand.New(rand.NewPCG(5, 5)))

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	for _, q := range questions {
		assertValidOptions(t, q, 2)
	}
}

func TestBuildAsksSharedNameOnce(t *testing.T) {
	catalog := &fakeCatalog{
		species: []domain.Species{
			{ID: "a", Name: "Bream"},
			{ID: "b", Name: "Bream"},
			{ID: "c", Name: "Snapper"},
		},
		videos: []domain.VideoAsset{
			{ID: "v1", SpeciesID: "a", FilePath: "a.mp4"},
			{ID: "v2", SpeciesID: "b", FilePath: "b.mp4"},
			{ID: "v3", SpeciesID: "c", FilePath: "c.mp4"},
		},
	}

	for seed := uint64(1); seed <= 20; seed++ {
		builder := app.NewQuestionBuilder(catalog, prefixResolver(""), rand.New(rand.NewPCG(seed, seed)))
		questions, err := builder.Build(context.Background(), 12)
		require.NoError(t, err)
		require.Len(t, questions, 2)
		assert.NotEqual(t, questions[0].CorrectAnswer, questions[1].CorrectAnswer)
		for _, q := range questions {
			assertValidOptions(t, q, 2)
			if q.CorrectAnswer == "Bream" {
				assert.Equal(t, "v1", q.ID, "first Bream row is the one asked")
			}
		}
	}
}

func TestBuildSkipsVideosWithoutSpecies(t *testing.T) {
	catalog := &fakeCatalog{
		species: []domain.Species{{ID: "a", Name: "Bream"}, {ID: "b", Name: "Snapper"}},
		videos:  []domain.VideoAsset{{ID: "v1", SpeciesID: "", FilePath: "orphan.mp4"}, {ID: "v2", SpeciesID: "b", FilePath: "b.mp4"}},
	}
	builder := app.NewQuestionBuilder(catalog, prefixResolver(""), nil)

	questions, err := builder.Build(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "v2", questions[0].ID)
	assert.Equal(t, "Snapper", questions[0].CorrectAnswer)
}

func TestBuildPicksAmongSpeciesVideos(t *testing.T) {
	catalog := &fakeCatalog{
		species: []domain.Species{{ID: "a", Name: "Bream"}},
		videos: []domain.VideoAsset{
			{ID: "v1", SpeciesID: "a", FilePath: "1.mp4"},
			{ID: "v2", SpeciesID: "a", FilePath: "2.mp4"},
			{ID: "v3", SpeciesID: "a", FilePath: "3.mp4"},
		},
	}
	builder := app.NewQuestionBuilder(catalog, prefixResolver(""), rand.New(rand.NewPCG(6, 6)))

	seen := make(map[string]bool)
	for i := 0; i < 60; i++ {
		questions, err := builder.Build(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, questions, 1)
		seen[questions[0].ID] = true
	}
	assert.Len(t, seen, 3, "every clip should eventually be chosen")
}

func TestBuildEmptyCatalogYieldsNoQuestions(t *testing.T) {
	for name, catalog := range map[string]*fakeCatalog{
		"no species": {videos: []domain.VideoAsset{{ID: "v1", SpeciesID: "a"}}},
		"no videos":  {species: []domain.Species{{ID: "a", Name: "Bream"}}},
		"empty":      {},
	} {
		t.Run(name, func(t *testing.T) {
			questions, err := app.NewQuestionBuilder(catalog, prefixResolver(""), nil).Build(context.Background(), 12)
			require.NoError(t, err)
			assert.NotNil(t, questions)
			assert.Empty(t, questions)
		})
	}
}

func TestBuildPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("species table unreachable")

	catalog := newFakeCatalog(5, 0)
	catalog.speciesErr = boom
	_, err := app.NewQuestionBuilder(catalog, prefixResolver(""), nil).Build(context.Background(), 3)
	assert.True(t, err == boom, "expected the fetch error unchanged, got %v", err)

	catalog = newFakeCatalog(5, 0)
	catalog.videosErr = boom
	_, err = app.NewQuestionBuilder(catalog, prefixResolver(""), nil).Build(context.Background(), 3)
	assert.True(t, err == boom, "expected the fetch error unchanged, got %v", err)
}

func TestBuildRejectsNonPositiveCount(t *testing.T) {
	_, err := app.NewQuestionBuilder(newFakeCatalog(5, 0), prefixResolver(""), nil).Build(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCount)
}

func TestBuildIsReproducibleWithSeededSource(t *testing.T) {
	catalog := newFakeCatalog(15, 5)
	first, err := app.NewQuestionBuilder(catalog, prefixResolver(""), app.NewRandomSource(99)).Build(context.Background(), 10)
	require.NoError(t, err)
	second, err := app.NewQuestionBuilder(catalog, prefixResolver(""), app.NewRandomSource(99)).Build(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func assertValidOptions(t *testing.T, q domain.Question, want int) {
	t.Helper()
	assert.Len(t, q.Options, want)
	assert.Contains(t, q.Options, q.CorrectAnswer)
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		assert.False(t, seen[o], "duplicate option %q", o)
		seen[o] = true
	}
}

type prefixResolver string

func (p prefixResolver) ResolveVideoURL(filePath string) string {
	return string(p) + filePath
}

type fakeCatalog struct {
	species    []domain.Species
	videos     []domain.VideoAsset
	speciesErr error
	videosErr  error
}

// newFakeCatalog creates withVideos species that have one or two clips and
// withoutVideos species that have none. Names sort in id order.
func newFakeCatalog(withVideos, withoutVideos int) *fakeCatalog {
	c := &fakeCatalog{}
	for i := 0; i < withVideos+withoutVideos; i++ {
		id := fmt.Sprintf("sp-%02d", i)
		c.species = append(c.species, domain.Species{ID: id, Name: fmt.Sprintf("Species %02d", i)})
		if i >= withVideos {
			continue
		}
		c.videos = append(c.videos, domain.VideoAsset{ID: id + "-v1", SpeciesID: id, FilePath: id + "/1.mp4"})
		if i%2 == 0 {
			c.videos = append(c.videos, domain.VideoAsset{ID: id + "-v2", SpeciesID: id, FilePath: id + "/2.mp4"})
		}
	}
	return c
}

func (c *fakeCatalog) ListSpecies(context.Context) ([]domain.Species, error) {
	return c.species, c.speciesErr
}

func (c *fakeCatalog) ListVideos(context.Context) ([]domain.VideoAsset, error) {
	return c.videos, c.videosErr
}

func (c *fakeCatalog) video(id string) (domain.VideoAsset, bool) {
	for _, v := range c.videos {
		if v.ID == id {
			return v, true
		}
	}
	return domain.VideoAsset{}, false
}

func (c *fakeCatalog) nameOf(speciesID string) string {
	for _, s := range c.species {
		if s.ID == speciesID {
			return s.Name
		}
	}
	return ""
}

func (c *fakeCatalog) idOf(name string) string {
	for _, s := range c.species {
		if s.Name == name {
			return s.ID
		}
	}
	return ""
}
