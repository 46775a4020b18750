package recommend

import (
	"encoding/json"
	"strings"
)

// ParseSuggestions turns a language-model reply into a suggestion list.
// Models are asked for JSON but do not reliably produce it, so parsing is
// a chain of fallbacks, tried in order:
//
//  1. a bare JSON array of suggestions
//  2. an object with a "recommendations" array
//  3. an object with a "books" array
//  4. the first array-valued field of the parsed object
//  5. the first balanced [...] run of the raw text
//
// Suggestions without a usable title are dropped. The function is total:
// when every strategy fails it returns an empty list, never an error.
func ParseSuggestions(raw string) []Suggestion {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Suggestion{}
	}

	if suggestions, ok := parseArray([]byte(raw)); ok {
		return suggestions
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &object); err == nil {
		for _, field := range []string{"recommendations", "books"} {
			if value, ok := object[field]; ok {
				if suggestions, ok := parseArray(value); ok {
					return suggestions
				}
			}
		}
		// Fallback: any array-valued field.
		for _, value := range object {
			if suggestions, ok := parseArray(value); ok {
				return suggestions
			}
		}
	}

	// Last resort: the model wrapped the JSON in prose or code fences.
	if match := firstBalancedArray(raw); match != "" {
		if suggestions, ok := parseArray([]byte(match)); ok {
			return suggestions
		}
	}

	return []Suggestion{}
}

// firstBalancedArray extracts the first bracket-balanced [...] run,
// tracking JSON string boundaries so brackets inside string values do
// not count. A greedy first-to-last-bracket match would break on replies
// holding two arrays or a stray trailing bracket.
func firstBalancedArray(raw string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

func parseArray(data []byte) ([]Suggestion, bool) {
	var parsed []Suggestion
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false
	}

	suggestions := make([]Suggestion, 0, len(parsed))
	for _, s := range parsed {
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			continue
		}
		s.Author = strings.TrimSpace(s.Author)
		s.Reason = strings.TrimSpace(s.Reason)
		suggestions = append(suggestions, s)
	}
	return suggestions, true
}
