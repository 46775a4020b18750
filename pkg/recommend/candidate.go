package recommend

import "bookshelf-ai-be/internal/entity"

// Breakdown exposes the per-layer contributions of a confidence score
// for diagnostics.
type Breakdown struct {
	Language float64 `json:"language"`
	Genre    float64 `json:"genre"`
	Author   float64 `json:"author"`
	Other    float64 `json:"other"`
}

// Candidate is a book considered for recommendation, carrying a bounded
// confidence score and an optional human-readable reason. Candidates are
// built per request and never persisted as such.
type Candidate struct {
	Book       *entity.Book
	Confidence float64
	Reason     string
	Breakdown  *Breakdown
}

// Suggestion is the raw shape the language model is asked to produce.
// Only suggestions with a usable title survive parsing. The pre-enrichment
// suggestion list is what the recommendation cache stores.
type Suggestion struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}
