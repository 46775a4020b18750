package unitofwork

import (
	"context"

	"bookshelf-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookRepository() contract.BookRepository
}
