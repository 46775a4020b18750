package recommend

import (
	"testing"

	"bookshelf-ai-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func seedSet() []*entity.Book {
	return []*entity.Book{
		{
			Title:           "Dune",
			Authors:         []string{"Frank Herbert"},
			Genres:          []string{"Science Fiction"},
			Language:        "en",
			PublicationYear: intPtr(1965),
		},
		{
			Title:           "Neuromancer",
			Authors:         []string{"William Gibson"},
			Genres:          []string{"Science Fiction", "Cyberpunk"},
			Language:        "en",
			PublicationYear: intPtr(1984),
		},
	}
}

func TestScoreHardLanguageReject(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNegative, Languages: []string{"en"}}

	candidate := &entity.Book{Title: "Der Prozess", Language: "de"}
	score, breakdown := Score(candidate, prefs, seeds, filters)

	assert.Equal(t, 0.0, score)
	assert.Equal(t, Breakdown{}, breakdown)

	// A candidate with no language at all is rejected too.
	noLang := &entity.Book{Title: "Unknown"}
	score, _ = Score(noLang, prefs, seeds, filters)
	assert.Equal(t, 0.0, score)
}

func TestScoreLanguageMatchBonus(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNeutral, Languages: []string{"en"}}

	candidate := &entity.Book{Title: "Snow Crash", Language: "en"}
	_, breakdown := Score(candidate, prefs, seeds, filters)

	assert.Equal(t, 0.3, breakdown.Language)
}

func TestScoreDominantLanguageWithoutFilter(t *testing.T) {
	seeds := seedSet() // both seeds en, confidence 1.0 > 0.7
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNeutral}

	match := &entity.Book{Title: "Snow Crash", Language: "en"}
	_, breakdown := Score(match, prefs, seeds, filters)
	assert.Equal(t, 0.3, breakdown.Language)

	miss := &entity.Book{Title: "Der Prozess", Language: "de"}
	score, breakdown := Score(miss, prefs, seeds, filters)
	assert.Equal(t, 0.0, breakdown.Language)
	assert.Greater(t, score, 0.0) // soft, not rejecting
}

func TestScoreGenreFilterMatchAndPenalty(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNeutral, Genres: []string{"science fiction", "cyberpunk"}}

	both := &entity.Book{Title: "Snow Crash", Genres: []string{"Science Fiction", "Cyberpunk"}}
	_, breakdown := Score(both, prefs, seeds, filters)
	assert.InDelta(t, 0.4, breakdown.Genre, 1e-9)

	none := &entity.Book{Title: "Emma", Genres: []string{"Romance"}}
	_, breakdown = Score(none, prefs, seeds, filters)
	assert.InDelta(t, -0.1, breakdown.Genre, 1e-9)
}

func TestScoreGenreWeightsWithoutFilter(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNeutral}

	// "science fiction" has share 1.0 -> weight 1.0 -> 0.2 contribution.
	candidate := &entity.Book{Title: "Foundation", Genres: []string{"Science Fiction"}}
	_, breakdown := Score(candidate, prefs, seeds, filters)
	assert.InDelta(t, 0.2, breakdown.Genre, 1e-9)
}

func TestScoreAuthorPreferenceDirections(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)
	collision := &entity.Book{Title: "Children of Dune", Authors: []string{"Frank Herbert"}}

	_, breakdown := Score(collision, prefs, seeds, Filters{AuthorPreference: AuthorPreferencePositive})
	assert.Equal(t, 0.2, breakdown.Author)

	_, breakdown = Score(collision, prefs, seeds, Filters{AuthorPreference: AuthorPreferenceNegative})
	assert.Equal(t, -0.3, breakdown.Author)

	_, breakdown = Score(collision, prefs, seeds, Filters{AuthorPreference: AuthorPreferenceNeutral})
	assert.Equal(t, 0.0, breakdown.Author)

	// No boost for non-colliding candidates under positive preference.
	fresh := &entity.Book{Title: "Solaris", Authors: []string{"Stanislaw Lem"}}
	_, breakdown = Score(fresh, prefs, seeds, Filters{AuthorPreference: AuthorPreferencePositive})
	assert.Equal(t, 0.0, breakdown.Author)
}

func TestScoreRecencyLayer(t *testing.T) {
	seeds := seedSet() // average year (1965+1984)/2 = 1975 rounded
	prefs := AnalyzePreferences(seeds)
	filters := Filters{AuthorPreference: AuthorPreferenceNeutral}

	near := &entity.Book{Title: "A", PublicationYear: intPtr(1978)}
	_, breakdown := Score(near, prefs, seeds, filters)
	assert.InDelta(t, scoreBase+recencyNearBonus, breakdown.Other, 1e-9)

	far := &entity.Book{Title: "B", PublicationYear: intPtr(1983)}
	_, breakdown = Score(far, prefs, seeds, filters)
	assert.InDelta(t, scoreBase+recencyFarBonus, breakdown.Other, 1e-9)

	distant := &entity.Book{Title: "C", PublicationYear: intPtr(2020)}
	_, breakdown = Score(distant, prefs, seeds, filters)
	assert.InDelta(t, scoreBase, breakdown.Other, 1e-9)
}

func TestScoreBounded(t *testing.T) {
	seeds := seedSet()
	prefs := AnalyzePreferences(seeds)

	candidates := []*entity.Book{
		{Title: "Max", Language: "en", Genres: []string{"Science Fiction", "Cyberpunk"}, Authors: []string{"Frank Herbert"}, PublicationYear: intPtr(1975)},
		{Title: "Min", Authors: []string{"Frank Herbert", "William Gibson"}, Genres: []string{"Romance"}},
		{Title: "Plain"},
	}
	filterSets := []Filters{
		{AuthorPreference: AuthorPreferencePositive, Languages: []string{"en"}, Genres: []string{"science fiction"}},
		{AuthorPreference: AuthorPreferenceNegative, Genres: []string{"horror"}},
		{AuthorPreference: AuthorPreferenceNeutral},
	}

	for _, c := range candidates {
		for _, f := range filterSets {
			score, _ := Score(c, prefs, seeds, f)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

func TestSharesAuthorCaseInsensitive(t *testing.T) {
	seeds := seedSet()
	assert.True(t, SharesAuthor(&entity.Book{Authors: []string{"frank HERBERT"}}, seeds))
	assert.False(t, SharesAuthor(&entity.Book{Authors: []string{"Ursula K. Le Guin"}}, seeds))
	assert.False(t, SharesAuthor(&entity.Book{}, seeds))
}
