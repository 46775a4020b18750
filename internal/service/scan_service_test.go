package service

import (
	"context"
	"testing"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/repository/memory"
	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScanFixture(repo *fakeBookRepository, cache *memory.RecommendationCache) (IScanService, *fakeUowFactory, *fakePublisher) {
	factory := &fakeUowFactory{repo: repo}
	publisher := &fakePublisher{}
	books := NewBookService(factory, publisher)
	return NewScanService(factory, books, cache, nil), factory, publisher
}

func TestReplaceSeedsSwapsShelf(t *testing.T) {
	oldSeed := seedBook("Old Favourite", "A. Author", "romance", "en", 1999, nil)
	repo := newFakeBookRepository(oldSeed)
	svc, factory, publisher := newScanFixture(repo, memory.NewRecommendationCache(0, true))

	response, err := svc.ReplaceSeeds(context.Background(), &dto.ReplaceSeedsRequest{
		Books: []dto.BookPayload{
			{Title: "Dune", Authors: []string{"Frank Herbert"}},
			{Title: "Hyperion", Authors: []string{"Dan Simmons"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, response.Count)
	assert.Len(t, response.SeedIds, 2)
	// Neither new seed carries an embedding yet.
	assert.Equal(t, 2, response.PendingEmbeddings)
	assert.Equal(t, 2, publisher.count())

	require.NotNil(t, factory.last)
	assert.True(t, factory.last.committed)

	seeds, err := svc.ListSeeds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, seeds.Count)
	for _, seed := range seeds.Seeds {
		assert.NotEqual(t, "Old Favourite", seed.Title)
		assert.True(t, seed.IsSeed)
	}
}

func TestReplaceSeedsKeepsEmbeddingOfKnownBook(t *testing.T) {
	// A re-scan of a book the store already embedded must not lose the
	// vector or queue a second embedding job.
	known := seedBook("Dune", "Frank Herbert", "science fiction", "en", 1965, []float32{0.3, 0.4})
	known.IsSeed = false
	repo := newFakeBookRepository(known)
	svc, _, publisher := newScanFixture(repo, memory.NewRecommendationCache(0, true))

	response, err := svc.ReplaceSeeds(context.Background(), &dto.ReplaceSeedsRequest{
		Books: []dto.BookPayload{{Title: "Dune", Authors: []string{"Frank Herbert"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, response.Count)
	assert.Equal(t, 0, response.PendingEmbeddings)
	assert.Equal(t, 0, publisher.count())

	stored, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, known.Id, stored[0].Id)
	assert.True(t, stored[0].IsSeed)
	assert.Equal(t, []float32{0.3, 0.4}, stored[0].Embedding)
}

func TestReplaceSeedsInvalidatesOldCacheEntries(t *testing.T) {
	oldSeed := seedBook("Old Favourite", "A. Author", "romance", "en", 1999, nil)
	repo := newFakeBookRepository(oldSeed)
	cache := memory.NewRecommendationCache(0, true)
	svc, _, _ := newScanFixture(repo, cache)

	filters := recommend.Filters{AuthorPreference: recommend.AuthorPreferenceNeutral}
	key := memory.BuildKey([]uuid.UUID{oldSeed.Id}, filters)
	cache.Set(key, []recommend.Suggestion{{Title: "Stale Pick"}})

	_, err := svc.ReplaceSeeds(context.Background(), &dto.ReplaceSeedsRequest{
		Books: []dto.BookPayload{{Title: "Dune", Authors: []string{"Frank Herbert"}}},
	})
	require.NoError(t, err)

	_, found := cache.Get(key)
	assert.False(t, found, "cache entries keyed by the old seed set must be gone")
}
