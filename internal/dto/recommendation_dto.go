package dto

import (
	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
)

// FiltersPayload narrows a recommendation request. Empty fields mean
// "no constraint"; author_preference defaults to negative (avoid authors
// already on the shelf).
type FiltersPayload struct {
	AuthorPreference string   `json:"author_preference" validate:"omitempty,oneof=positive negative neutral"`
	Languages        []string `json:"languages" validate:"omitempty,max=4,dive,min=2"`
	Genres           []string `json:"genres"`
}

func (p *FiltersPayload) ToFilters() recommend.Filters {
	if p == nil {
		return recommend.Filters{}
	}
	f := recommend.Filters{
		AuthorPreference: p.AuthorPreference,
		Languages:        p.Languages,
		Genres:           p.Genres,
	}
	f.Normalize()
	return f
}

// RecommendationRequest tunes a single LLM recommendation run.
// ExcludeTitles lists titles the client has already shown the user;
// they are skipped during enrichment (filtered flow only).
type RecommendationRequest struct {
	Count         int             `json:"count" validate:"omitempty,min=1,max=40"`
	Filters       *FiltersPayload `json:"filters"`
	ExcludeTitles []string        `json:"exclude_titles" validate:"omitempty,max=40"`
}

type BreakdownResponse struct {
	Language float64 `json:"language"`
	Genre    float64 `json:"genre"`
	Author   float64 `json:"author"`
	Other    float64 `json:"other"`
}

type CandidateResponse struct {
	BookId     uuid.UUID          `json:"book_id"`
	Title      string             `json:"title"`
	Authors    []string           `json:"authors"`
	Genres     []string           `json:"genres"`
	Language   string             `json:"language"`
	Year       *int               `json:"publication_year"`
	Source     string             `json:"source"`
	Confidence float64            `json:"confidence"`
	Reason     string             `json:"reason"`
	Breakdown  *BreakdownResponse `json:"breakdown,omitempty"`
}

// RecommendationResponse carries scored candidates. Origin records which
// engine produced the list ("metadata", "embedding", "llm",
// "metadata-fallback"). Cached is true when the LLM flow reused a cached
// suggestion list instead of calling the model.
type RecommendationResponse struct {
	Items  []CandidateResponse `json:"items"`
	Origin string              `json:"origin"`
	Cached bool                `json:"cached"`
}

type FilterOptionsResponse struct {
	Languages []string `json:"languages"`
	Genres    []string `json:"genres"`
	Authors   []string `json:"authors"`
}

type ClearCacheResponse struct {
	Cleared bool `json:"cleared"`
}
