package dto

import (
	"time"

	"github.com/google/uuid"
)

// BookPayload is the wire shape for a single book coming from a shelf scan
// or a manual add. Only the title is mandatory; everything else is
// best-effort metadata from the scanner.
type BookPayload struct {
	Title           string   `json:"title" validate:"required"`
	Authors         []string `json:"authors"`
	Genres          []string `json:"genres"`
	Categories      []string `json:"categories"`
	SeriesName      *string  `json:"series_name"`
	SeriesNumber    *int     `json:"series_number"`
	PublicationYear *int     `json:"publication_year"`
	PageCount       *int     `json:"page_count"`
	Publisher       string   `json:"publisher"`
	ISBN10          string   `json:"isbn_10"`
	ISBN13          string   `json:"isbn_13"`
	Language        string   `json:"language"`
	Description     string   `json:"description"`
	MaturityRating  string   `json:"maturity_rating"`
}

type CreateBookRequest struct {
	BookPayload
}

type CreateBookResponse struct {
	Id uuid.UUID `json:"id"`
}

type BookResponse struct {
	Id              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Authors         []string   `json:"authors"`
	Genres          []string   `json:"genres"`
	Categories      []string   `json:"categories"`
	SeriesName      *string    `json:"series_name"`
	SeriesNumber    *int       `json:"series_number"`
	PublicationYear *int       `json:"publication_year"`
	PageCount       *int       `json:"page_count"`
	Publisher       string     `json:"publisher"`
	ISBN10          string     `json:"isbn_10"`
	ISBN13          string     `json:"isbn_13"`
	Language        string     `json:"language"`
	Description     string     `json:"description"`
	MaturityRating  string     `json:"maturity_rating"`
	Source          string     `json:"source"`
	IsSeed          bool       `json:"is_seed"`
	HasEmbedding    bool       `json:"has_embedding"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// PublishEmbedBookMessage is the queue payload for the async embedding
// worker. Force re-embeds even when the book already carries a vector.
type PublishEmbedBookMessage struct {
	BookId uuid.UUID `json:"book_id"`
	Force  bool      `json:"force,omitempty"`
}

type DeleteBookRequest struct {
	Id uuid.UUID
}

type DeleteBookResponse struct {
	Id uuid.UUID `json:"id"`
}
