package service

import (
	"context"
	"fmt"
	"time"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/memory"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/pkg/events"
	pktNats "bookshelf-ai-be/pkg/nats"

	"github.com/google/uuid"
)

type IScanService interface {
	// ReplaceSeeds swaps the whole shelf: the previous seed set is removed
	// and the scanned books take its place. Books already known by identity
	// are merged, so their embeddings survive a re-scan.
	ReplaceSeeds(ctx context.Context, req *dto.ReplaceSeedsRequest) (*dto.ReplaceSeedsResponse, error)
	ListSeeds(ctx context.Context) (*dto.ListSeedsResponse, error)
}

type scanService struct {
	uowFactory     unitofwork.RepositoryFactory
	bookService    IBookService
	cache          *memory.RecommendationCache
	eventPublisher *pktNats.Publisher
}

func NewScanService(
	uowFactory unitofwork.RepositoryFactory,
	bookService IBookService,
	cache *memory.RecommendationCache,
	eventPublisher *pktNats.Publisher,
) IScanService {
	return &scanService{
		uowFactory:     uowFactory,
		bookService:    bookService,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

func (s *scanService) ReplaceSeeds(ctx context.Context, req *dto.ReplaceSeedsRequest) (*dto.ReplaceSeedsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	oldSeeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}
	oldSeedIds := make([]uuid.UUID, 0, len(oldSeeds))
	for _, seed := range oldSeeds {
		oldSeedIds = append(oldSeedIds, seed.Id)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.BookRepository().DeleteAllSeeds(ctx); err != nil {
		return nil, err
	}

	seeds := make([]*entity.Book, 0, len(req.Books))
	for i := range req.Books {
		book := payloadToEntity(&req.Books[i])
		book.Source = entity.BookSourceScan

		stored, _, err := s.bookService.UpsertByIdentity(ctx, uow, book, true)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, stored)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Cached suggestion lists keyed by the old seed set are stale now.
	if s.cache != nil && len(oldSeedIds) > 0 {
		s.cache.InvalidateSeedPrefix(oldSeedIds)
	}

	seedIds := make([]uuid.UUID, 0, len(seeds))
	pending := 0
	for _, seed := range seeds {
		seedIds = append(seedIds, seed.Id)
		if seed.HasEmbedding() {
			continue
		}
		if err := s.bookService.QueueEmbedding(ctx, seed.Id, false); err != nil {
			return nil, err
		}
		pending++
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "SEEDS_REPLACED",
			Data: map[string]interface{}{
				"seed_count":         len(seedIds),
				"pending_embeddings": pending,
			},
			OccurredAt: time.Now(),
		}
		// Notification delivery is auxiliary; the scan itself succeeded.
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SEEDS_REPLACED event: %v\n", err)
		}
	}

	return &dto.ReplaceSeedsResponse{
		SeedIds:           seedIds,
		Count:             len(seedIds),
		PendingEmbeddings: pending,
	}, nil
}

func (s *scanService) ListSeeds(ctx context.Context) (*dto.ListSeedsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	seeds, err := uow.BookRepository().FindAll(ctx,
		specification.SeedsOnly{},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := dto.ListSeedsResponse{
		Seeds: make([]dto.BookResponse, 0, len(seeds)),
		Count: len(seeds),
	}
	for _, seed := range seeds {
		response.Seeds = append(response.Seeds, *bookToResponse(seed))
	}
	return &response, nil
}
