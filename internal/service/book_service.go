package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IBookService interface {
	Create(ctx context.Context, req *dto.CreateBookRequest) (*dto.CreateBookResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error)
	List(ctx context.Context) ([]*dto.BookResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpsertByIdentity inserts the incoming book or merges it into an
	// existing row with the same identity. Identity is the ISBN when both
	// sides carry one, otherwise the normalized title plus an author
	// overlap. The stored embedding survives a merge so a re-scan does not
	// force a re-embed. Returns the persisted entity and whether a new row
	// was created.
	UpsertByIdentity(ctx context.Context, uow unitofwork.UnitOfWork, incoming *entity.Book, markSeed bool) (*entity.Book, bool, error)

	// QueueEmbedding enqueues the async embedding job for a book. With
	// force the worker re-embeds even when the book already carries a
	// vector, e.g. after the embedding model changed.
	QueueEmbedding(ctx context.Context, bookId uuid.UUID, force bool) error
}

type bookService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewBookService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IBookService {
	return &bookService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (s *bookService) Create(ctx context.Context, req *dto.CreateBookRequest) (*dto.CreateBookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	book := payloadToEntity(&req.BookPayload)
	book.Source = entity.BookSourceScan

	stored, created, err := s.UpsertByIdentity(ctx, uow, book, false)
	if err != nil {
		return nil, err
	}

	if created || !stored.HasEmbedding() {
		if err := s.QueueEmbedding(ctx, stored.Id, false); err != nil {
			return nil, err
		}
	}

	return &dto.CreateBookResponse{Id: stored.Id}, nil
}

func (s *bookService) Show(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}
	return bookToResponse(book), nil
}

func (s *bookService) List(ctx context.Context) ([]*dto.BookResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	books, err := uow.BookRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	response := make([]*dto.BookResponse, 0, len(books))
	for _, book := range books {
		response = append(response, bookToResponse(book))
	}
	return response, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	book, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if book == nil {
		return nil
	}
	return uow.BookRepository().Delete(ctx, id)
}

func (s *bookService) UpsertByIdentity(ctx context.Context, uow unitofwork.UnitOfWork, incoming *entity.Book, markSeed bool) (*entity.Book, bool, error) {
	incoming.Normalize()

	existing, err := s.findByIdentity(ctx, uow, incoming)
	if err != nil {
		return nil, false, err
	}

	now := time.Now()

	if existing != nil {
		mergeMetadata(existing, incoming)
		if markSeed {
			existing.IsSeed = true
		}
		existing.UpdatedAt = &now
		if err := uow.BookRepository().Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if incoming.Id == uuid.Nil {
		incoming.Id = uuid.New()
	}
	incoming.IsSeed = markSeed
	incoming.CreatedAt = now

	if err := uow.BookRepository().Create(ctx, incoming); err != nil {
		return nil, false, err
	}
	return incoming, true, nil
}

func (s *bookService) QueueEmbedding(ctx context.Context, bookId uuid.UUID, force bool) error {
	payload := dto.PublishEmbedBookMessage{BookId: bookId, Force: force}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payloadJson)
}

func (s *bookService) findByIdentity(ctx context.Context, uow unitofwork.UnitOfWork, incoming *entity.Book) (*entity.Book, error) {
	if isbn := incoming.ISBN(); isbn != "" {
		existing, err := uow.BookRepository().FindOne(ctx, specification.ByISBN{ISBN: isbn})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	title := strings.TrimSpace(incoming.Title)
	if title == "" {
		return nil, nil
	}

	matches, err := uow.BookRepository().FindAll(ctx, specification.ByTitleILike{Title: title})
	if err != nil {
		return nil, err
	}

	wanted := incoming.NormalizedTitle()
	for _, match := range matches {
		if match.NormalizedTitle() != wanted {
			continue
		}
		// Same title, different author is a different book. Missing author
		// metadata on either side falls back to the title match alone.
		if len(incoming.Authors) == 0 || len(match.Authors) == 0 || authorsOverlap(incoming.Authors, match.Authors) {
			return match, nil
		}
	}
	return nil, nil
}

// mergeMetadata fills gaps on the stored book from the incoming scan.
// Existing values win; the embedding is never touched here.
func mergeMetadata(existing, incoming *entity.Book) {
	if len(existing.Authors) == 0 {
		existing.Authors = incoming.Authors
	}
	if len(existing.Genres) == 0 {
		existing.Genres = incoming.Genres
	}
	if len(existing.Categories) == 0 {
		existing.Categories = incoming.Categories
	}
	if existing.SeriesName == nil {
		existing.SeriesName = incoming.SeriesName
	}
	if existing.SeriesNumber == nil {
		existing.SeriesNumber = incoming.SeriesNumber
	}
	if existing.PublicationYear == nil {
		existing.PublicationYear = incoming.PublicationYear
	}
	if existing.PageCount == nil {
		existing.PageCount = incoming.PageCount
	}
	if existing.Publisher == "" {
		existing.Publisher = incoming.Publisher
	}
	if existing.ISBN10 == "" {
		existing.ISBN10 = incoming.ISBN10
	}
	if existing.ISBN13 == "" {
		existing.ISBN13 = incoming.ISBN13
	}
	if existing.Language == "" {
		existing.Language = incoming.Language
	}
	if existing.Description == "" {
		existing.Description = incoming.Description
	}
	if existing.MaturityRating == "" {
		existing.MaturityRating = incoming.MaturityRating
	}
}

func authorsOverlap(a, b []string) bool {
	seen := make(map[string]bool, len(a))
	for _, author := range a {
		seen[strings.ToLower(strings.TrimSpace(author))] = true
	}
	for _, author := range b {
		if seen[strings.ToLower(strings.TrimSpace(author))] {
			return true
		}
	}
	return false
}

// buildEmbeddingDocument renders the text the embedding model sees for a
// book. Kept stable: changing the layout silently invalidates every stored
// vector.
func buildEmbeddingDocument(book *entity.Book) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: %s\n", book.Title)
	if len(book.Authors) > 0 {
		fmt.Fprintf(&sb, "Authors: %s\n", strings.Join(book.Authors, ", "))
	}
	if len(book.Genres) > 0 {
		fmt.Fprintf(&sb, "Genres: %s\n", strings.Join(book.Genres, ", "))
	}
	if book.SeriesName != nil {
		fmt.Fprintf(&sb, "Series: %s\n", *book.SeriesName)
	}
	if book.PublicationYear != nil {
		fmt.Fprintf(&sb, "Published: %d\n", *book.PublicationYear)
	}
	if book.Language != "" {
		fmt.Fprintf(&sb, "Language: %s\n", book.Language)
	}
	if book.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", book.Description)
	}
	return sb.String()
}

func payloadToEntity(p *dto.BookPayload) *entity.Book {
	book := &entity.Book{
		Title:           strings.TrimSpace(p.Title),
		Authors:         p.Authors,
		Genres:          p.Genres,
		Categories:      p.Categories,
		SeriesName:      p.SeriesName,
		SeriesNumber:    p.SeriesNumber,
		PublicationYear: p.PublicationYear,
		PageCount:       p.PageCount,
		Publisher:       strings.TrimSpace(p.Publisher),
		ISBN10:          strings.TrimSpace(p.ISBN10),
		ISBN13:          strings.TrimSpace(p.ISBN13),
		Language:        strings.ToLower(strings.TrimSpace(p.Language)),
		Description:     p.Description,
		MaturityRating:  p.MaturityRating,
	}
	book.Normalize()
	return book
}

func bookToResponse(book *entity.Book) *dto.BookResponse {
	return &dto.BookResponse{
		Id:              book.Id,
		Title:           book.Title,
		Authors:         book.Authors,
		Genres:          book.Genres,
		Categories:      book.Categories,
		SeriesName:      book.SeriesName,
		SeriesNumber:    book.SeriesNumber,
		PublicationYear: book.PublicationYear,
		PageCount:       book.PageCount,
		Publisher:       book.Publisher,
		ISBN10:          book.ISBN10,
		ISBN13:          book.ISBN13,
		Language:        book.Language,
		Description:     book.Description,
		MaturityRating:  book.MaturityRating,
		Source:          book.Source,
		IsSeed:          book.IsSeed,
		HasEmbedding:    book.HasEmbedding(),
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
}
