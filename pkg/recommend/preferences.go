package recommend

import (
	"math"
	"strings"

	"bookshelf-ai-be/internal/entity"
)

// Preferences summarizes the reading taste detected in the seed set.
// It feeds the layered scorer and is recomputed per request.
type Preferences struct {
	// LanguageDistribution maps a language code to its share among seeds
	// that have a language set.
	LanguageDistribution map[string]float64
	DominantLanguage     string
	// DominantLanguageConfidence equals the dominant language's share.
	DominantLanguageConfidence float64

	// GenreDistribution maps a genre to the fraction of seeds carrying it.
	GenreDistribution map[string]float64
	// GenreWeights bias scoring toward frequent genres without letting a
	// single genre dominate: min(share * 2, 1.0).
	GenreWeights map[string]float64

	// AuthorDiversity is unique authors divided by the seed count.
	AuthorDiversity float64

	PublisherDistribution map[string]float64
	AverageYear           *int
	TotalBooks            int
}

// AnalyzePreferences derives a Preferences summary from the seed books.
// Deterministic and total: an empty seed set returns a zeroed structure.
func AnalyzePreferences(books []*entity.Book) *Preferences {
	prefs := &Preferences{
		LanguageDistribution:  map[string]float64{},
		GenreDistribution:     map[string]float64{},
		GenreWeights:          map[string]float64{},
		PublisherDistribution: map[string]float64{},
		TotalBooks:            len(books),
	}
	if len(books) == 0 {
		return prefs
	}

	languageCounts := map[string]int{}
	genreCounts := map[string]int{}
	publisherCounts := map[string]int{}
	uniqueAuthors := map[string]bool{}
	withLanguage := 0
	yearSum := 0
	yearCount := 0

	for _, book := range books {
		if book == nil {
			continue
		}
		if lang := strings.ToLower(strings.TrimSpace(book.Language)); lang != "" {
			languageCounts[lang]++
			withLanguage++
		}
		seenGenres := map[string]bool{}
		for _, g := range book.Genres {
			genre := strings.ToLower(strings.TrimSpace(g))
			if genre == "" || seenGenres[genre] {
				continue
			}
			seenGenres[genre] = true
			genreCounts[genre]++
		}
		for _, a := range book.Authors {
			author := strings.ToLower(strings.TrimSpace(a))
			if author != "" {
				uniqueAuthors[author] = true
			}
		}
		if pub := strings.ToLower(strings.TrimSpace(book.Publisher)); pub != "" {
			publisherCounts[pub]++
		}
		if book.PublicationYear != nil {
			yearSum += *book.PublicationYear
			yearCount++
		}
	}

	if withLanguage > 0 {
		for lang, count := range languageCounts {
			share := float64(count) / float64(withLanguage)
			prefs.LanguageDistribution[lang] = share
			if share > prefs.DominantLanguageConfidence ||
				(share == prefs.DominantLanguageConfidence && lang < prefs.DominantLanguage) {
				prefs.DominantLanguage = lang
				prefs.DominantLanguageConfidence = share
			}
		}
	}

	for genre, count := range genreCounts {
		share := float64(count) / float64(len(books))
		prefs.GenreDistribution[genre] = share
		prefs.GenreWeights[genre] = math.Min(share*2, 1.0)
	}

	prefs.AuthorDiversity = float64(len(uniqueAuthors)) / float64(len(books))

	for pub, count := range publisherCounts {
		prefs.PublisherDistribution[pub] = float64(count) / float64(len(books))
	}

	if yearCount > 0 {
		avg := int(math.Round(float64(yearSum) / float64(yearCount)))
		prefs.AverageYear = &avg
	}

	return prefs
}
