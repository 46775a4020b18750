package catalog

import (
	"bookshelf-ai-be/internal/entity"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	volumesBaseURL = "https://www.googleapis.com/books/v1/volumes"
	maxPageSize    = 40 // Google Books caps maxResults at 40
)

// Client queries the Google Books volumes API for candidate books.
// An API key is optional; without one the shared anonymous quota applies.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: volumesBaseURL,
		apiKey:  apiKey,
	}
}

// toEntity maps a Google Books volume onto a catalog-sourced book entity.
func toEntity(v *volume) *entity.Book {
	info := &v.VolumeInfo

	book := &entity.Book{
		Id:             uuid.New(),
		Title:          strings.TrimSpace(info.Title),
		Authors:        trimAll(info.Authors),
		Genres:         splitCategories(info.Categories),
		Categories:     trimAll(info.Categories),
		Publisher:      strings.TrimSpace(info.Publisher),
		Description:    info.Description,
		Language:       strings.ToLower(strings.TrimSpace(info.Language)),
		MaturityRating: info.MaturityRating,
		Source:         entity.BookSourceCatalog,
	}

	if info.PageCount > 0 {
		pages := info.PageCount
		book.PageCount = &pages
	}
	if year := parseYear(info.PublishedDate); year != 0 {
		book.PublicationYear = &year
	}
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_10":
			book.ISBN10 = id.Identifier
		case "ISBN_13":
			book.ISBN13 = id.Identifier
		}
	}

	book.Normalize()
	return book
}

// parseYear extracts the year from dates like "2001", "2001-09" or "2001-09-16".
func parseYear(published string) int {
	published = strings.TrimSpace(published)
	if len(published) < 4 {
		return 0
	}
	year, err := strconv.Atoi(published[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// splitCategories flattens Google's slash-delimited category paths
// ("Fiction / Science Fiction / Space Opera") into individual genre labels.
func splitCategories(categories []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		for _, part := range strings.Split(category, "/") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, part)
		}
	}
	return out
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
