package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Book source tags (provenance of the record).
const (
	BookSourceScan    = "scan"
	BookSourceCatalog = "catalog"
	BookSourceLLM     = "llm"
)

type Book struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title           string
	Authors         []string
	Genres          []string
	Categories      []string
	SeriesName      *string
	SeriesNumber    *int
	PublicationYear *int
	Publisher       string
	PageCount       *int
	ISBN10          string
	ISBN13          string
	Language        string
	Description     string
	MaturityRating  string
	Source          string
	IsSeed          bool
	Embedding       []float32
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}

// NormalizedTitle is the primary dedup identity: lowercased, trimmed title.
func (b *Book) NormalizedTitle() string {
	return strings.ToLower(strings.TrimSpace(b.Title))
}

// ISBN returns the secondary identity: ISBN-13 first, then ISBN-10,
// empty when the book carries neither.
func (b *Book) ISBN() string {
	if b.ISBN13 != "" {
		return b.ISBN13
	}
	return b.ISBN10
}

// HasEmbedding reports whether the book already carries a vector.
func (b *Book) HasEmbedding() bool {
	return len(b.Embedding) > 0
}

// Normalize guarantees the list-valued fields are never nil so that
// downstream scoring never has to branch on absence.
func (b *Book) Normalize() {
	if b.Authors == nil {
		b.Authors = []string{}
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	if b.Categories == nil {
		b.Categories = []string{}
	}
}
