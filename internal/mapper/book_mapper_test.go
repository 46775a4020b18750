package mapper

import (
	"testing"
	"time"

	"bookshelf-ai-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookMapperRoundTrip(t *testing.T) {
	m := NewBookMapper()
	year := 1965
	series := "Dune Saga"

	original := &entity.Book{
		Id:              uuid.New(),
		Title:           "Dune",
		Authors:         []string{"Frank Herbert"},
		Genres:          []string{"Science Fiction"},
		Categories:      []string{"Classics"},
		SeriesName:      &series,
		PublicationYear: &year,
		Publisher:       "Chilton Books",
		ISBN13:          "9780441172719",
		Language:        "en",
		Source:          entity.BookSourceScan,
		IsSeed:          true,
		Embedding:       []float32{0.1, 0.2, 0.3},
		CreatedAt:       time.Now(),
	}

	restored := m.ToEntity(m.ToModel(original))

	require.NotNil(t, restored)
	assert.Equal(t, original.Id, restored.Id)
	assert.Equal(t, original.Title, restored.Title)
	assert.Equal(t, original.Authors, restored.Authors)
	assert.Equal(t, original.Genres, restored.Genres)
	assert.Equal(t, original.Categories, restored.Categories)
	require.NotNil(t, restored.SeriesName)
	assert.Equal(t, series, *restored.SeriesName)
	require.NotNil(t, restored.PublicationYear)
	assert.Equal(t, year, *restored.PublicationYear)
	assert.Equal(t, original.ISBN13, restored.ISBN13)
	assert.Equal(t, original.Embedding, restored.Embedding)
	assert.True(t, restored.IsSeed)
}

func TestBookMapperEmptyLists(t *testing.T) {
	m := NewBookMapper()

	restored := m.ToEntity(m.ToModel(&entity.Book{Id: uuid.New(), Title: "Untagged"}))

	// List fields are always present, never nil.
	require.NotNil(t, restored)
	assert.NotNil(t, restored.Authors)
	assert.NotNil(t, restored.Genres)
	assert.NotNil(t, restored.Categories)
	assert.Empty(t, restored.Authors)
	// No vector in, no vector out: the column stays NULL.
	assert.False(t, restored.HasEmbedding())
}

func TestBookMapperNil(t *testing.T) {
	m := NewBookMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}
