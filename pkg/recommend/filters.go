package recommend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Author preference directions. The direction decides how candidates
// sharing an author with the seed set are treated.
const (
	AuthorPreferencePositive = "positive"
	AuthorPreferenceNegative = "negative"
	AuthorPreferenceNeutral  = "neutral"
)

// MaxFilterLanguages bounds the language filter size.
const MaxFilterLanguages = 4

// Filters carries the user-supplied recommendation constraints.
// Empty Languages/Genres mean unconstrained.
type Filters struct {
	AuthorPreference string   `json:"authorPreference"`
	Languages        []string `json:"languages"`
	Genres           []string `json:"genres"`
}

// Normalize lowercases and trims the filter values and applies the
// default author preference (negative: avoid seed authors).
func (f *Filters) Normalize() {
	if f.AuthorPreference == "" {
		f.AuthorPreference = AuthorPreferenceNegative
	}
	f.AuthorPreference = strings.ToLower(strings.TrimSpace(f.AuthorPreference))
	f.Languages = normalizeList(f.Languages)
	f.Genres = normalizeList(f.Genres)
}

// Validate rejects invalid filter input before any recommendation work
// begins.
func (f Filters) Validate() error {
	switch f.AuthorPreference {
	case AuthorPreferencePositive, AuthorPreferenceNegative, AuthorPreferenceNeutral:
	default:
		return fmt.Errorf("invalid author preference %q", f.AuthorPreference)
	}
	if len(f.Languages) > MaxFilterLanguages {
		return fmt.Errorf("at most %d languages allowed, got %d", MaxFilterLanguages, len(f.Languages))
	}
	return nil
}

// CacheKey renders the filters in a canonical form: fixed field order,
// languages and genres sorted, so equal filter sets always produce the
// same key.
func (f Filters) CacheKey() string {
	canonical := Filters{
		AuthorPreference: f.AuthorPreference,
		Languages:        sortedCopy(f.Languages),
		Genres:           sortedCopy(f.Genres),
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		// Filters only hold strings; Marshal cannot fail in practice.
		return f.AuthorPreference
	}
	return string(data)
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
