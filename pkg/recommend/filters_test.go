package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiltersNormalizeDefaults(t *testing.T) {
	f := Filters{}
	f.Normalize()
	assert.Equal(t, AuthorPreferenceNegative, f.AuthorPreference)

	f = Filters{AuthorPreference: " Positive ", Languages: []string{" EN ", ""}, Genres: []string{"Mystery"}}
	f.Normalize()
	assert.Equal(t, AuthorPreferencePositive, f.AuthorPreference)
	assert.Equal(t, []string{"en"}, f.Languages)
	assert.Equal(t, []string{"mystery"}, f.Genres)
}

func TestFiltersValidate(t *testing.T) {
	valid := Filters{AuthorPreference: AuthorPreferenceNeutral, Languages: []string{"en", "de"}}
	assert.NoError(t, valid.Validate())

	badPreference := Filters{AuthorPreference: "maybe"}
	assert.Error(t, badPreference.Validate())

	tooManyLanguages := Filters{
		AuthorPreference: AuthorPreferenceNegative,
		Languages:        []string{"en", "de", "fr", "es", "it"},
	}
	assert.Error(t, tooManyLanguages.Validate())
}

func TestFiltersCacheKeyCanonical(t *testing.T) {
	a := Filters{AuthorPreference: AuthorPreferenceNegative, Languages: []string{"de", "en"}, Genres: []string{"crime", "mystery"}}
	b := Filters{AuthorPreference: AuthorPreferenceNegative, Languages: []string{"en", "de"}, Genres: []string{"mystery", "crime"}}

	// Order of the filter lists must not change the key.
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := Filters{AuthorPreference: AuthorPreferencePositive, Languages: []string{"en", "de"}, Genres: []string{"mystery", "crime"}}
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}
