package recommend

import (
	"fmt"
	"strings"

	"bookshelf-ai-be/internal/entity"
)

// BuildPrompts renders the system instruction and user prompt for a
// recommendation request. The author-preference direction is injected as
// an explicit constraint:
//
//   - positive: the model may only suggest books by the seed authors
//   - negative: seed authors and seed titles are both forbidden
//   - neutral:  only seed titles are forbidden
//
// count is the number of suggestions requested (the filtered flow asks
// for twice the limit to survive downstream rejection).
func BuildPrompts(seeds []*entity.Book, filters Filters, count int) (system string, user string) {
	var sys strings.Builder
	sys.WriteString("You are a book recommendation assistant.\n")
	sys.WriteString("Respond ONLY with a JSON array of objects, each shaped as ")
	sys.WriteString(`{"title": "...", "author": "...", "reason": "..."}.`)
	sys.WriteString("\nNo prose, no markdown fences, no trailing commentary.\n")

	authors := uniqueAuthors(seeds)
	titles := uniqueTitles(seeds)

	switch filters.AuthorPreference {
	case AuthorPreferencePositive:
		if len(authors) > 0 {
			sys.WriteString("Only suggest books written by one of these authors: ")
			sys.WriteString(strings.Join(authors, ", "))
			sys.WriteString(".\n")
		}
		forbidTitles(&sys, titles)
	case AuthorPreferenceNeutral:
		forbidTitles(&sys, titles)
	default: // negative
		if len(authors) > 0 {
			sys.WriteString("Never suggest books by these authors: ")
			sys.WriteString(strings.Join(authors, ", "))
			sys.WriteString(".\n")
		}
		forbidTitles(&sys, titles)
	}

	if len(filters.Languages) > 0 {
		sys.WriteString("Only suggest books available in these languages: ")
		sys.WriteString(strings.Join(filters.Languages, ", "))
		sys.WriteString(".\n")
	}
	if len(filters.Genres) > 0 {
		sys.WriteString("Prefer books in these genres: ")
		sys.WriteString(strings.Join(filters.Genres, ", "))
		sys.WriteString(".\n")
	}

	var usr strings.Builder
	usr.WriteString("I own these books:\n")
	usr.WriteString(SeedList(seeds))
	usr.WriteString(fmt.Sprintf("\n\nSuggest %d books I might enjoy next.", count))

	return sys.String(), usr.String()
}

// SeedList renders the seed set as a readable, comma-joined list:
// "Title" by Author, "Title" by Author.
func SeedList(seeds []*entity.Book) string {
	parts := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if seed == nil || seed.Title == "" {
			continue
		}
		if len(seed.Authors) > 0 {
			parts = append(parts, fmt.Sprintf("%q by %s", seed.Title, strings.Join(seed.Authors, ", ")))
		} else {
			parts = append(parts, fmt.Sprintf("%q", seed.Title))
		}
	}
	return strings.Join(parts, ", ")
}

func forbidTitles(sys *strings.Builder, titles []string) {
	if len(titles) == 0 {
		return
	}
	sys.WriteString("Never suggest these titles (the user already owns them): ")
	sys.WriteString(strings.Join(titles, ", "))
	sys.WriteString(".\n")
}

func uniqueAuthors(seeds []*entity.Book) []string {
	seen := map[string]bool{}
	authors := []string{}
	for _, seed := range seeds {
		if seed == nil {
			continue
		}
		for _, a := range seed.Authors {
			key := strings.ToLower(strings.TrimSpace(a))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			authors = append(authors, strings.TrimSpace(a))
		}
	}
	return authors
}

func uniqueTitles(seeds []*entity.Book) []string {
	seen := map[string]bool{}
	titles := []string{}
	for _, seed := range seeds {
		if seed == nil || seed.Title == "" {
			continue
		}
		key := seed.NormalizedTitle()
		if seen[key] {
			continue
		}
		seen[key] = true
		titles = append(titles, fmt.Sprintf("%q", seed.Title))
	}
	return titles
}
