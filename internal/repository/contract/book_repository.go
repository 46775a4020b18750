package contract

import (
	"context"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredBook pairs a stored book with its cosine similarity against a
// query vector, as returned by the pgvector scan.
type ScoredBook struct {
	Book       *entity.Book
	Similarity float64
}

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAllSeeds removes the current seed set; used when a new shelf
	// scan replaces the seeds wholesale.
	DeleteAllSeeds(ctx context.Context) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar runs a pgvector cosine-distance scan against the
	// stored embeddings, excluding the given ids.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeIds []uuid.UUID) ([]*ScoredBook, error)
}
