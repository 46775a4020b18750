package catalog

import (
	"bookshelf-ai-be/pkg/recommend"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVolumes = `{
  "totalItems": 2,
  "items": [
    {
      "id": "vol-1",
      "volumeInfo": {
        "title": "Children of Time",
        "authors": ["Adrian Tchaikovsky"],
        "publisher": "Tor",
        "publishedDate": "2015-06-04",
        "description": "Uplifted spiders inherit a terraformed world.",
        "industryIdentifiers": [
          {"type": "ISBN_13", "identifier": "9781447273288"},
          {"type": "ISBN_10", "identifier": "1447273281"}
        ],
        "pageCount": 600,
        "categories": ["Fiction / Science Fiction / Space Opera"],
        "maturityRating": "NOT_MATURE",
        "language": "EN"
      }
    },
    {
      "id": "vol-2",
      "volumeInfo": {
        "title": ""
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("")
	client.baseURL = server.URL
	client.httpClient = server.Client()
	return client, server
}

func TestSearchMapsVolumes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleVolumes))
	})

	books, err := client.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	require.Len(t, books, 1, "untitled volumes are skipped")

	book := books[0]
	assert.Equal(t, "Children of Time", book.Title)
	assert.Equal(t, []string{"Adrian Tchaikovsky"}, book.Authors)
	assert.Equal(t, "en", book.Language)
	assert.Equal(t, "9781447273288", book.ISBN13)
	assert.Equal(t, "1447273281", book.ISBN10)
	require.NotNil(t, book.PublicationYear)
	assert.Equal(t, 2015, *book.PublicationYear)
	require.NotNil(t, book.PageCount)
	assert.Equal(t, 600, *book.PageCount)
	assert.Equal(t, []string{"Fiction", "Science Fiction", "Space Opera"}, book.Genres)
	assert.Equal(t, []string{"Fiction / Science Fiction / Space Opera"}, book.Categories)
}

func TestSearchNonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Search(context.Background(), "dune", 10)
	assert.Error(t, err)
}

func TestFindSimilarDeduplicatesSeenTitles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleVolumes))
	})

	profile := &recommend.TasteProfile{
		Genres: map[string]bool{"science fiction": true},
	}

	seen := map[string]bool{"children of time": true}
	books, err := client.FindSimilar(context.Background(), profile, 10, seen)
	require.NoError(t, err)
	assert.Empty(t, books)

	books, err = client.FindSimilar(context.Background(), profile, 10, nil)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Children of Time", books[0].Title)
}

func TestFindSimilarNoSubjects(t *testing.T) {
	client := NewClient("")
	books, err := client.FindSimilar(context.Background(), &recommend.TasteProfile{}, 10, nil)
	require.NoError(t, err)
	assert.Nil(t, books)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2001, parseYear("2001"))
	assert.Equal(t, 2001, parseYear("2001-09-16"))
	assert.Equal(t, 0, parseYear(""))
	assert.Equal(t, 0, parseYear("n/a"))
}
