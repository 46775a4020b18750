package memory

import (
	"testing"
	"time"

	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyOrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	filters := recommend.Filters{AuthorPreference: recommend.AuthorPreferenceNegative}

	assert.Equal(t,
		BuildKey([]uuid.UUID{a, b}, filters),
		BuildKey([]uuid.UUID{b, a}, filters),
	)
}

func TestBuildKeyDistinguishesFilters(t *testing.T) {
	seed := []uuid.UUID{uuid.New()}

	negative := recommend.Filters{AuthorPreference: recommend.AuthorPreferenceNegative}
	positive := recommend.Filters{AuthorPreference: recommend.AuthorPreferencePositive}

	assert.NotEqual(t, BuildKey(seed, negative), BuildKey(seed, positive))
}

func TestCacheGetSet(t *testing.T) {
	c := NewRecommendationCache(time.Minute, true)
	key := BuildKey([]uuid.UUID{uuid.New()}, recommend.Filters{AuthorPreference: recommend.AuthorPreferenceNeutral})

	_, found := c.Get(key)
	assert.False(t, found)

	suggestions := []recommend.Suggestion{{Title: "Hyperion", Author: "Dan Simmons"}}
	c.Set(key, suggestions)

	got, found := c.Get(key)
	require.True(t, found)
	assert.Equal(t, suggestions, got)
}

func TestCacheExpiry(t *testing.T) {
	c := NewRecommendationCache(10*time.Millisecond, true)
	key := "expired|{}"
	c.Set(key, []recommend.Suggestion{{Title: "X"}})

	time.Sleep(30 * time.Millisecond)

	_, found := c.Get(key)
	assert.False(t, found)
}

func TestCacheDisabled(t *testing.T) {
	c := NewRecommendationCache(time.Minute, false)
	c.Set("k", []recommend.Suggestion{{Title: "X"}})

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestInvalidateSeedPrefix(t *testing.T) {
	c := NewRecommendationCache(time.Minute, true)

	oldSeeds := []uuid.UUID{uuid.New(), uuid.New()}
	newSeeds := []uuid.UUID{uuid.New()}
	filters := recommend.Filters{AuthorPreference: recommend.AuthorPreferenceNegative}

	oldKey := BuildKey(oldSeeds, filters)
	newKey := BuildKey(newSeeds, filters)
	c.Set(oldKey, []recommend.Suggestion{{Title: "Old"}})
	c.Set(newKey, []recommend.Suggestion{{Title: "New"}})

	c.InvalidateSeedPrefix(oldSeeds)

	_, found := c.Get(oldKey)
	assert.False(t, found, "entries for the replaced seed set must be dropped")

	_, found = c.Get(newKey)
	assert.True(t, found, "entries for other seed sets survive")
}
