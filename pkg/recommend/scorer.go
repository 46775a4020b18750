package recommend

import (
	"math"
	"strings"

	"bookshelf-ai-be/internal/entity"
)

// Scoring weights. Hand-tuned; treat as a tuning surface rather than
// derived values.
const (
	scoreBase = 0.5

	languageMatchBonus        = 0.3
	dominantLanguageThreshold = 0.7
	languageShareWeight       = 0.15

	genreMatchBonus     = 0.2
	genreBonusCap       = 0.4
	genreMissPenalty    = 0.1
	genreWeightFactor   = 0.2
	authorPositiveBonus = 0.2
	authorNegativeMalus = 0.3

	recencyNearYears = 5
	recencyFarYears  = 10
	recencyNearBonus = 0.1
	recencyFarBonus  = 0.05
)

// MinConfidence is the floor below which the orchestrator drops a scored
// candidate in the filtered flow.
const MinConfidence = 0.2

// Score combines language, genre, author-preference and recency layers
// into a single confidence in [0,1]. A candidate whose language falls
// outside a non-empty language filter is hard-rejected (score 0, the
// remaining layers are skipped). Filters must be normalized beforehand.
func Score(book *entity.Book, prefs *Preferences, seeds []*entity.Book, filters Filters) (float64, Breakdown) {
	breakdown := Breakdown{Other: scoreBase}
	score := scoreBase

	// Language layer.
	lang := strings.ToLower(strings.TrimSpace(book.Language))
	if len(filters.Languages) > 0 {
		if !containsString(filters.Languages, lang) {
			return 0, Breakdown{}
		}
		breakdown.Language = languageMatchBonus
	} else if prefs != nil {
		if prefs.DominantLanguageConfidence > dominantLanguageThreshold && lang == prefs.DominantLanguage {
			breakdown.Language = languageMatchBonus
		} else if share, ok := prefs.LanguageDistribution[lang]; ok {
			breakdown.Language = languageShareWeight * share
		}
	}
	score += breakdown.Language

	// Genre layer.
	bookGenres := map[string]bool{}
	for _, g := range book.Genres {
		if genre := strings.ToLower(strings.TrimSpace(g)); genre != "" {
			bookGenres[genre] = true
		}
	}
	if len(filters.Genres) > 0 {
		matches := 0
		for _, g := range filters.Genres {
			if bookGenres[g] {
				matches++
			}
		}
		if matches > 0 {
			breakdown.Genre = math.Min(genreMatchBonus*float64(matches), genreBonusCap)
		} else {
			breakdown.Genre = -genreMissPenalty
		}
	} else if prefs != nil {
		weighted := 0.0
		for genre := range bookGenres {
			if weight, ok := prefs.GenreWeights[genre]; ok {
				weighted += weight * genreWeightFactor
			}
		}
		breakdown.Genre = math.Min(weighted, genreBonusCap)
	}
	score += breakdown.Genre

	// Author layer.
	if SharesAuthor(book, seeds) {
		switch filters.AuthorPreference {
		case AuthorPreferencePositive:
			breakdown.Author = authorPositiveBonus
		case AuthorPreferenceNegative:
			breakdown.Author = -authorNegativeMalus
		}
	}
	score += breakdown.Author

	// Recency layer.
	if book.PublicationYear != nil && prefs != nil && prefs.AverageYear != nil {
		distance := *book.PublicationYear - *prefs.AverageYear
		if distance < 0 {
			distance = -distance
		}
		if distance <= recencyNearYears {
			breakdown.Other += recencyNearBonus
			score += recencyNearBonus
		} else if distance <= recencyFarYears {
			breakdown.Other += recencyFarBonus
			score += recencyFarBonus
		}
	}

	return clamp01(score), breakdown
}

// SharesAuthor reports whether the book has an author in common with any
// of the seed books, case-insensitively.
func SharesAuthor(book *entity.Book, seeds []*entity.Book) bool {
	seedAuthors := map[string]bool{}
	for _, seed := range seeds {
		if seed == nil {
			continue
		}
		for _, a := range seed.Authors {
			if author := strings.ToLower(strings.TrimSpace(a)); author != "" {
				seedAuthors[author] = true
			}
		}
	}
	for _, a := range book.Authors {
		if seedAuthors[strings.ToLower(strings.TrimSpace(a))] {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
