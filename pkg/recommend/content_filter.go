package recommend

import (
	"strings"

	"bookshelf-ai-be/internal/entity"
)

// ContentSettings controls the maturity screen every recommender consults
// before returning a candidate.
type ContentSettings struct {
	ExcludeMature bool
	BlockedGenres []string
}

// ShouldExclude is the content-filter predicate: true when the book's
// content metadata puts it outside the configured settings. Pure, no I/O.
func ShouldExclude(book *entity.Book, settings ContentSettings) bool {
	if book == nil {
		return false
	}
	if settings.ExcludeMature && strings.EqualFold(book.MaturityRating, "MATURE") {
		return true
	}
	if len(settings.BlockedGenres) > 0 {
		blocked := map[string]bool{}
		for _, g := range settings.BlockedGenres {
			blocked[strings.ToLower(strings.TrimSpace(g))] = true
		}
		for _, g := range book.Genres {
			if blocked[strings.ToLower(strings.TrimSpace(g))] {
				return true
			}
		}
	}
	return false
}
