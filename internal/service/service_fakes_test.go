package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/contract"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/pkg/llm"
	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
)

// fakeBookRepository keeps books in memory and interprets the query
// specifications by type so service logic can be tested without a
// database.
type fakeBookRepository struct {
	mu    sync.Mutex
	books map[uuid.UUID]*entity.Book
}

func newFakeBookRepository(books ...*entity.Book) *fakeBookRepository {
	repo := &fakeBookRepository{books: make(map[uuid.UUID]*entity.Book)}
	for _, b := range books {
		if b.Id == uuid.Nil {
			b.Id = uuid.New()
		}
		repo.books[b.Id] = b
	}
	return repo
}

func (r *fakeBookRepository) Create(_ context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.Id == uuid.Nil {
		book.Id = uuid.New()
	}
	r.books[book.Id] = book
	return nil
}

func (r *fakeBookRepository) Update(_ context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[book.Id]; !ok {
		return errors.New("book not found")
	}
	r.books[book.Id] = book
	return nil
}

func (r *fakeBookRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepository) DeleteAllSeeds(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.books {
		if b.IsSeed {
			delete(r.books, id)
		}
	}
	return nil
}

func (r *fakeBookRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

func (r *fakeBookRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := []*entity.Book{}
	for _, b := range r.books {
		if matchesSpecs(b, specs) {
			matches = append(matches, b)
		}
	}
	// Map iteration order is random; tests want stable output.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Id.String() < matches[j].Id.String()
	})
	return matches, nil
}

func (r *fakeBookRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (r *fakeBookRepository) SearchSimilar(_ context.Context, embedding []float32, limit int, excludeIds []uuid.UUID) ([]*contract.ScoredBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	excluded := make(map[uuid.UUID]bool, len(excludeIds))
	for _, id := range excludeIds {
		excluded[id] = true
	}

	scored := []*contract.ScoredBook{}
	for _, b := range r.books {
		if !b.HasEmbedding() || excluded[b.Id] {
			continue
		}
		scored = append(scored, &contract.ScoredBook{
			Book:       b,
			Similarity: recommend.Cosine(embedding, b.Embedding),
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func matchesSpecs(b *entity.Book, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if b.Id != s.ID {
				return false
			}
		case specification.ByIDs:
			found := false
			for _, id := range s.IDs {
				if b.Id == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case specification.SeedsOnly:
			if !b.IsSeed {
				return false
			}
		case specification.ByTitleILike:
			if !strings.Contains(strings.ToLower(b.Title), strings.ToLower(s.Title)) {
				return false
			}
		case specification.ByISBN:
			if b.ISBN13 != s.ISBN && b.ISBN10 != s.ISBN {
				return false
			}
		case specification.OrderBy, specification.Pagination:
			// Ordering/paging is not significant for these tests.
		}
	}
	return true
}

type fakeUnitOfWork struct {
	repo       *fakeBookRepository
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error               { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}
func (u *fakeUnitOfWork) BookRepository() contract.BookRepository { return u.repo }

type fakeUowFactory struct {
	repo *fakeBookRepository
	last *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	f.last = &fakeUnitOfWork{repo: f.repo}
	return f.last
}

// fakePublisher records queued embedding payloads.
type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

// fakeCatalog serves canned results keyed by query substring.
type fakeCatalog struct {
	searchResults  map[string][]*entity.Book
	titleResults   map[string][]*entity.Book
	similarResults []*entity.Book
	searchErr      error
	searchCalls    []string
}

func (c *fakeCatalog) Search(_ context.Context, query string, _ int) ([]*entity.Book, error) {
	c.searchCalls = append(c.searchCalls, query)
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	for key, books := range c.searchResults {
		if strings.Contains(query, key) {
			return books, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) SearchByTitleAuthor(_ context.Context, title, _ string) ([]*entity.Book, error) {
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.titleResults[strings.ToLower(title)], nil
}

func (c *fakeCatalog) FindSimilar(_ context.Context, _ *recommend.TasteProfile, limit int, seenTitles map[string]bool) ([]*entity.Book, error) {
	out := []*entity.Book{}
	for _, b := range c.similarResults {
		if seenTitles[b.NormalizedTitle()] {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, b)
	}
	return out, nil
}

// fakeLLM returns a fixed completion and counts calls.
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (l *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return l.response, l.err
}

func (l *fakeLLM) Complete(_ context.Context, _, _ string, _ ...llm.Option) (string, error) {
	l.calls++
	if l.err != nil {
		return "", l.err
	}
	return l.response, nil
}

func intPtr(v int) *int { return &v }

func seedBook(title, author, genre, lang string, year int, embedding []float32) *entity.Book {
	b := &entity.Book{
		Id:              uuid.New(),
		Title:           title,
		Authors:         []string{author},
		Genres:          []string{genre},
		Language:        lang,
		PublicationYear: intPtr(year),
		Source:          entity.BookSourceScan,
		IsSeed:          true,
		Embedding:       embedding,
	}
	b.Normalize()
	return b
}
