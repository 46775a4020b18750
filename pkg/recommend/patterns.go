package recommend

import (
	"math"
	"sort"
	"strings"

	"bookshelf-ai-be/internal/entity"
)

// TasteProfile aggregates the metadata signals of a seed set into
// lowercased lookup sets. It is derived per request and never persisted.
type TasteProfile struct {
	Genres      map[string]bool
	Categories  map[string]bool
	Authors     map[string]bool
	Titles      map[string]bool
	Series      map[string]bool
	Publishers  map[string]bool
	AverageYear *int
}

// ExtractPatterns builds a TasteProfile from the seed books. Every string
// signal is lowercased and trimmed before collection. Total function: an
// empty seed set yields an all-empty profile.
func ExtractPatterns(books []*entity.Book) *TasteProfile {
	profile := &TasteProfile{
		Genres:     map[string]bool{},
		Categories: map[string]bool{},
		Authors:    map[string]bool{},
		Titles:     map[string]bool{},
		Series:     map[string]bool{},
		Publishers: map[string]bool{},
	}

	yearSum := 0
	yearCount := 0

	for _, book := range books {
		if book == nil {
			continue
		}
		for _, g := range book.Genres {
			addNormalized(profile.Genres, g)
		}
		for _, c := range book.Categories {
			addNormalized(profile.Categories, c)
		}
		for _, a := range book.Authors {
			addNormalized(profile.Authors, a)
		}
		addNormalized(profile.Titles, book.Title)
		if book.SeriesName != nil {
			addNormalized(profile.Series, *book.SeriesName)
		}
		addNormalized(profile.Publishers, book.Publisher)

		if book.PublicationYear != nil {
			yearSum += *book.PublicationYear
			yearCount++
		}
	}

	if yearCount > 0 {
		avg := int(math.Round(float64(yearSum) / float64(yearCount)))
		profile.AverageYear = &avg
	}

	return profile
}

// HasMetadataSignal reports whether the profile carries anything a catalog
// subject search could be built from.
func (p *TasteProfile) HasMetadataSignal() bool {
	return len(p.Genres) > 0 || len(p.Categories) > 0
}

// Subjects returns the union of genres and categories, dropping
// duplicates and strings of length <= 2, capped at max entries.
// Genres come first; within each set the order is alphabetical so the
// resulting catalog queries are stable.
func (p *TasteProfile) Subjects(max int) []string {
	seen := map[string]bool{}
	subjects := []string{}

	collect := func(set map[string]bool) {
		keys := make([]string, 0, len(set))
		for s := range set {
			keys = append(keys, s)
		}
		sort.Strings(keys)
		for _, s := range keys {
			if len(subjects) >= max {
				return
			}
			if len(s) <= 2 || seen[s] {
				continue
			}
			seen[s] = true
			subjects = append(subjects, s)
		}
	}

	collect(p.Genres)
	collect(p.Categories)
	return subjects
}

func addNormalized(set map[string]bool, value string) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return
	}
	set[v] = true
}
