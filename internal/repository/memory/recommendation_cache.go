package memory

import (
	"sort"
	"strings"
	"time"

	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultRecommendationTTL bounds how long a raw suggestion list may be
// reused before the model is consulted again.
const DefaultRecommendationTTL = 1 * time.Hour

// RecommendationCache stores raw LLM suggestion lists (pre-enrichment)
// keyed by seed identity plus normalized filters. Filters and scoring are
// cheap to redo; the model call is not, so only the suggestion list is
// cached. In-process only; entries older than the TTL are treated as
// absent.
type RecommendationCache struct {
	cache   *cache.Cache
	enabled bool
}

// NewRecommendationCache creates a cache with the given TTL (expired
// items are purged every 10 minutes). A disabled cache always misses.
func NewRecommendationCache(ttl time.Duration, enabled bool) *RecommendationCache {
	if ttl <= 0 {
		ttl = DefaultRecommendationTTL
	}
	return &RecommendationCache{
		cache:   cache.New(ttl, 10*time.Minute),
		enabled: enabled,
	}
}

// BuildKey combines the sorted seed-book ids with the canonical filter
// encoding. Identical seed sets with identical filters always map to the
// same key regardless of input order.
func BuildKey(seedIds []uuid.UUID, filters recommend.Filters) string {
	ids := make([]string, len(seedIds))
	for i, id := range seedIds {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|" + filters.CacheKey()
}

// SeedPrefix returns the key prefix shared by every entry derived from
// the given seed set.
func SeedPrefix(seedIds []uuid.UUID) string {
	ids := make([]string, len(seedIds))
	for i, id := range seedIds {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|"
}

func (r *RecommendationCache) Get(key string) ([]recommend.Suggestion, bool) {
	if !r.enabled {
		return nil, false
	}
	if x, found := r.cache.Get(key); found {
		return x.([]recommend.Suggestion), true
	}
	return nil, false
}

func (r *RecommendationCache) Set(key string, suggestions []recommend.Suggestion) {
	if !r.enabled {
		return
	}
	r.cache.Set(key, suggestions, cache.DefaultExpiration)
}

// InvalidateSeedPrefix drops every entry whose key was derived from the
// given seed-id set. Called when a new scan replaces the seeds.
func (r *RecommendationCache) InvalidateSeedPrefix(seedIds []uuid.UUID) {
	prefix := SeedPrefix(seedIds)
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}

// Flush drops every entry.
func (r *RecommendationCache) Flush() {
	r.cache.Flush()
}
