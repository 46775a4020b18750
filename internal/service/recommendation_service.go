package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/memory"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/pkg/llm"
	"bookshelf-ai-be/pkg/recommend"

	"github.com/google/uuid"
)

const (
	// maxSubjectQueries bounds the catalog fan-out of the metadata flow.
	maxSubjectQueries = 3
	subjectPageSize   = 20

	// backfillConfidence tags similar-books backfill results with a fixed
	// lower confidence to signal reduced certainty.
	backfillConfidence = 0.4

	// metadataScoreScale normalizes the additive metadata score into [0,1].
	metadataScoreScale = 20.0

	defaultRecommendationLimit = 10
)

// subjectCleaner keeps word characters, spaces and hyphens in catalog
// subject queries.
var subjectCleaner = regexp.MustCompile(`[^\w\s-]`)

// CatalogClient is the catalog-lookup contract the orchestrator consumes.
// Lookups are best-effort: a failed query is worth a log line, not a
// failed recommendation batch.
type CatalogClient interface {
	Search(ctx context.Context, query string, limit int) ([]*entity.Book, error)
	SearchByTitleAuthor(ctx context.Context, title, author string) ([]*entity.Book, error)
	FindSimilar(ctx context.Context, profile *recommend.TasteProfile, limit int, seenTitles map[string]bool) ([]*entity.Book, error)
}

// RecommendOptions tunes a single embedding-scan request.
type RecommendOptions struct {
	Limit      int
	ExcludeIds []uuid.UUID
}

type IRecommendationService interface {
	// RecommendByQueryEmbedding runs the cosine-distance scan over the
	// stored embeddings, excluding the given ids.
	RecommendByQueryEmbedding(ctx context.Context, queryVector []float32, opts RecommendOptions) ([]*recommend.Candidate, error)

	// RecommendFromSeedBooks ranks against the mean seed embedding and
	// backfills from the catalog's similar-books lookup when the scan
	// comes up short. Empty when no seed carries an embedding.
	RecommendFromSeedBooks(ctx context.Context, seeds []*entity.Book, limit int) ([]*recommend.Candidate, error)

	RecommendByMetadata(ctx context.Context, limit int) (*dto.RecommendationResponse, error)
	RecommendWithLLM(ctx context.Context, limit int) (*dto.RecommendationResponse, error)

	// RecommendWithLLMAndFilters additionally skips excludeTitles, the
	// titles the caller has already shown the user.
	RecommendWithLLMAndFilters(ctx context.Context, filters recommend.Filters, limit int, excludeTitles []string) (*dto.RecommendationResponse, error)

	GetAvailableFilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
	ClearCache(ctx context.Context) (*dto.ClearCacheResponse, error)
}

type recommendationService struct {
	uowFactory            unitofwork.RepositoryFactory
	bookService           IBookService
	catalog               CatalogClient
	llmProvider           llm.LLMProvider
	cache                 *memory.RecommendationCache
	content               recommend.ContentSettings
	maxEnrichmentAttempts int
}

func NewRecommendationService(
	uowFactory unitofwork.RepositoryFactory,
	bookService IBookService,
	catalogClient CatalogClient,
	llmProvider llm.LLMProvider,
	cache *memory.RecommendationCache,
	content recommend.ContentSettings,
	maxEnrichmentAttempts int,
) IRecommendationService {
	if maxEnrichmentAttempts <= 0 {
		maxEnrichmentAttempts = 20
	}
	return &recommendationService{
		uowFactory:            uowFactory,
		bookService:           bookService,
		catalog:               catalogClient,
		llmProvider:           llmProvider,
		cache:                 cache,
		content:               content,
		maxEnrichmentAttempts: maxEnrichmentAttempts,
	}
}

func (s *recommendationService) RecommendByQueryEmbedding(ctx context.Context, queryVector []float32, opts RecommendOptions) ([]*recommend.Candidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultRecommendationLimit
	}

	// Over-fetch so the content filter can drop rows without leaving the
	// page short.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.BookRepository().SearchSimilar(ctx, queryVector, 2*opts.Limit, opts.ExcludeIds)
	if err != nil {
		return nil, err
	}

	// The scan already orders by similarity descending.
	seen := make(map[uuid.UUID]bool)
	candidates := make([]*recommend.Candidate, 0, len(scored))
	for _, hit := range scored {
		if hit.Similarity <= 0 {
			continue
		}
		if recommend.ShouldExclude(hit.Book, s.content) {
			continue
		}
		if seen[hit.Book.Id] {
			continue
		}
		seen[hit.Book.Id] = true
		candidates = append(candidates, &recommend.Candidate{
			Book:       hit.Book,
			Confidence: hit.Similarity,
			Reason:     "Close to your shelf's overall profile",
		})
	}

	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return candidates, nil
}

func (s *recommendationService) RecommendFromSeedBooks(ctx context.Context, seeds []*entity.Book, limit int) ([]*recommend.Candidate, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if len(seeds) == 0 {
		return []*recommend.Candidate{}, nil
	}

	vectors := make([][]float32, 0, len(seeds))
	for _, seed := range seeds {
		if seed.HasEmbedding() {
			vectors = append(vectors, seed.Embedding)
		}
	}
	mean := recommend.MeanVector(vectors)

	seedIds := make([]uuid.UUID, 0, len(seeds))
	seedTitles := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seedIds = append(seedIds, seed.Id)
		seedTitles[seed.NormalizedTitle()] = true
	}

	candidates := []*recommend.Candidate{}
	if mean != nil {
		scanned, err := s.RecommendByQueryEmbedding(ctx, mean, RecommendOptions{
			Limit:      limit,
			ExcludeIds: seedIds,
		})
		if err != nil {
			return nil, err
		}
		for _, candidate := range scanned {
			if seedTitles[candidate.Book.NormalizedTitle()] {
				continue
			}
			candidates = append(candidates, candidate)
		}
	}

	if len(candidates) >= limit {
		return candidates[:limit], nil
	}

	// Backfill from the catalog's similar-books lookup, seed by seed.
	seenTitles := make(map[string]bool, len(seedTitles)+len(candidates))
	for title := range seedTitles {
		seenTitles[title] = true
	}
	for _, candidate := range candidates {
		seenTitles[candidate.Book.NormalizedTitle()] = true
	}

	for _, seed := range seeds {
		if len(candidates) >= limit {
			break
		}
		profile := recommend.ExtractPatterns([]*entity.Book{seed})
		similar, err := s.catalog.FindSimilar(ctx, profile, limit-len(candidates), seenTitles)
		if err != nil {
			log.Printf("[WARN] similar-books lookup failed for %q: %v", seed.Title, err)
			continue
		}
		for _, book := range similar {
			if len(candidates) >= limit {
				break
			}
			if recommend.ShouldExclude(book, s.content) {
				continue
			}
			candidates = append(candidates, &recommend.Candidate{
				Book:       book,
				Confidence: backfillConfidence,
				Reason:     fmt.Sprintf("Similar to %q", seed.Title),
			})
		}
	}

	return candidates, nil
}

func (s *recommendationService) RecommendByMetadata(ctx context.Context, limit int) (*dto.RecommendationResponse, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	seeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return emptyRecommendationResponse("metadata"), nil
	}

	profile := recommend.ExtractPatterns(seeds)

	// No genre/category signal means there is nothing to search the
	// catalog on; the embedding scan is the whole answer.
	if !profile.HasMetadataSignal() {
		candidates, err := s.RecommendFromSeedBooks(ctx, seeds, limit)
		if err != nil {
			return nil, err
		}
		return candidatesToResponse(candidates, "embedding", false), nil
	}

	pool := s.searchCatalogBySubjects(ctx, profile)

	type scored struct {
		book  *entity.Book
		score float64
	}
	scoredPool := make([]scored, 0, len(pool))
	for _, book := range pool {
		if score := metadataScore(book, profile); score > 0 {
			scoredPool = append(scoredPool, scored{book: book, score: score})
		}
	}
	sort.SliceStable(scoredPool, func(i, j int) bool {
		return scoredPool[i].score > scoredPool[j].score
	})
	if len(scoredPool) > 2*limit {
		scoredPool = scoredPool[:2*limit]
	}

	candidates := make([]*recommend.Candidate, 0, len(scoredPool))
	chosenIds := make([]uuid.UUID, 0, len(scoredPool))
	for _, sc := range scoredPool {
		if recommend.ShouldExclude(sc.book, s.content) {
			continue
		}

		// Persist the survivor so it carries an embedding for future scans.
		stored, created, err := s.bookService.UpsertByIdentity(ctx, uow, sc.book, false)
		if err != nil {
			log.Printf("[WARN] failed to upsert catalog candidate %q: %v", sc.book.Title, err)
			stored = sc.book
		} else if created || !stored.HasEmbedding() {
			if err := s.bookService.QueueEmbedding(ctx, stored.Id, false); err != nil {
				log.Printf("[WARN] failed to queue embedding for %q: %v", stored.Title, err)
			}
		}

		// The upsert may have merged into a row whose metadata collides
		// with a seed after all; re-check before keeping it.
		if profile.Titles[stored.NormalizedTitle()] || anyAuthorIn(stored.Authors, profile.Authors) {
			continue
		}

		candidates = append(candidates, &recommend.Candidate{
			Book:       stored,
			Confidence: clampUnit(sc.score / metadataScoreScale),
			Reason:     "Matches your shelf's genres and categories",
		})
		chosenIds = append(chosenIds, stored.Id)
	}

	if len(candidates) < limit {
		candidates = s.supplementFromEmbeddings(ctx, seeds, candidates, chosenIds, limit)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidatesToResponse(candidates, "metadata", false), nil
}

func (s *recommendationService) RecommendWithLLM(ctx context.Context, limit int) (*dto.RecommendationResponse, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	seeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return emptyRecommendationResponse("llm"), nil
	}

	filters := recommend.Filters{}
	filters.Normalize()

	system, user := recommend.BuildPrompts(seeds, filters, limit)
	raw, err := s.llmProvider.Complete(ctx, system, user)
	if err != nil {
		// No filters are in play, so the metadata path is a faithful
		// substitute for a failed model call.
		log.Printf("[WARN] LLM recommendation failed, falling back to metadata: %v", err)
		response, err := s.RecommendByMetadata(ctx, limit)
		if err != nil {
			return nil, err
		}
		for i := range response.Items {
			response.Items[i].Reason = "Based on your shelf's overall profile"
		}
		response.Origin = "metadata-fallback"
		return response, nil
	}

	suggestions := recommend.ParseSuggestions(raw)
	candidates, err := s.enrichSuggestions(ctx, uow, seeds, suggestions, filters, limit, nil)
	if err != nil {
		return nil, err
	}
	return candidatesToResponse(candidates, "llm", false), nil
}

func (s *recommendationService) RecommendWithLLMAndFilters(ctx context.Context, filters recommend.Filters, limit int, excludeTitles []string) (*dto.RecommendationResponse, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	seeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return emptyRecommendationResponse("llm"), nil
	}

	seedIds := make([]uuid.UUID, 0, len(seeds))
	for _, seed := range seeds {
		seedIds = append(seedIds, seed.Id)
	}

	key := memory.BuildKey(seedIds, filters)
	suggestions, cached := s.cache.Get(key)
	if !cached {
		// Ask for twice the limit so enough suggestions survive the
		// downstream exclusion and scoring steps.
		system, user := recommend.BuildPrompts(seeds, filters, 2*limit)
		raw, err := s.llmProvider.Complete(ctx, system, user)
		if err != nil {
			// Filter semantics cannot be reproduced by the metadata
			// path; this failure is the caller's to handle.
			return nil, fmt.Errorf("llm recommendation: %w", err)
		}
		suggestions = recommend.ParseSuggestions(raw)
		s.cache.Set(key, suggestions)
	}

	candidates, err := s.enrichSuggestions(ctx, uow, seeds, suggestions, filters, limit, excludeTitles)
	if err != nil {
		return nil, err
	}
	return candidatesToResponse(candidates, "llm", cached), nil
}

func (s *recommendationService) GetAvailableFilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	seeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}

	languages := make(map[string]bool)
	genres := make(map[string]bool)
	authors := make(map[string]bool)
	for _, seed := range seeds {
		if lang := strings.ToLower(strings.TrimSpace(seed.Language)); lang != "" {
			languages[lang] = true
		}
		for _, g := range seed.Genres {
			if genre := strings.ToLower(strings.TrimSpace(g)); genre != "" {
				genres[genre] = true
			}
		}
		for _, a := range seed.Authors {
			if author := strings.TrimSpace(a); author != "" {
				authors[author] = true
			}
		}
	}

	return &dto.FilterOptionsResponse{
		Languages: sortedKeys(languages),
		Genres:    sortedKeys(genres),
		Authors:   sortedKeys(authors),
	}, nil
}

func (s *recommendationService) ClearCache(ctx context.Context) (*dto.ClearCacheResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	seeds, err := uow.BookRepository().FindAll(ctx, specification.SeedsOnly{})
	if err != nil {
		return nil, err
	}

	if len(seeds) == 0 {
		s.cache.Flush()
	} else {
		seedIds := make([]uuid.UUID, 0, len(seeds))
		for _, seed := range seeds {
			seedIds = append(seedIds, seed.Id)
		}
		s.cache.InvalidateSeedPrefix(seedIds)
	}
	return &dto.ClearCacheResponse{Cleared: true}, nil
}

// searchCatalogBySubjects issues up to maxSubjectQueries subject searches
// derived from the taste profile and dedups the pooled results by
// ISBN-13, ISBN-10 or title. Individual query failures are logged and
// skipped.
func (s *recommendationService) searchCatalogBySubjects(ctx context.Context, profile *recommend.TasteProfile) []*entity.Book {
	seen := make(map[string]bool)
	pool := []*entity.Book{}

	for _, subject := range profile.Subjects(maxSubjectQueries) {
		cleaned := strings.TrimSpace(subjectCleaner.ReplaceAllString(subject, ""))
		if cleaned == "" {
			continue
		}
		books, err := s.catalog.Search(ctx, "subject:"+cleaned, subjectPageSize)
		if err != nil {
			log.Printf("[WARN] catalog subject search %q failed: %v", cleaned, err)
			continue
		}
		for _, book := range books {
			key := book.ISBN()
			if key == "" {
				key = book.NormalizedTitle()
			}
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			pool = append(pool, book)
		}
	}
	return pool
}

// metadataScore is the additive metadata match score of a catalog
// candidate against the taste profile. A seed title or seed author
// collision scores 0 (excluded outright).
func metadataScore(book *entity.Book, profile *recommend.TasteProfile) float64 {
	if profile.Titles[book.NormalizedTitle()] || anyAuthorIn(book.Authors, profile.Authors) {
		return 0
	}

	score := 0.0
	for _, g := range book.Genres {
		if profile.Genres[strings.ToLower(strings.TrimSpace(g))] {
			score += 3
		}
	}
	for _, c := range book.Categories {
		if profile.Categories[strings.ToLower(strings.TrimSpace(c))] {
			score += 2
		}
	}
	if publisher := strings.ToLower(strings.TrimSpace(book.Publisher)); publisher != "" && profile.Publishers[publisher] {
		score++
	}
	if book.PublicationYear != nil && profile.AverageYear != nil {
		distance := *book.PublicationYear - *profile.AverageYear
		if distance < 0 {
			distance = -distance
		}
		if distance <= 5 {
			score++
		} else if distance <= 10 {
			score += 0.5
		}
	}
	// A series the shelf has not seen yet signals new-but-comparable.
	if book.SeriesName != nil {
		if series := strings.ToLower(strings.TrimSpace(*book.SeriesName)); series != "" && !profile.Series[series] {
			score++
		}
	}
	return score
}

// supplementFromEmbeddings tops a short metadata result up from the
// embedding scan, reusing the same exclusion rules.
func (s *recommendationService) supplementFromEmbeddings(ctx context.Context, seeds []*entity.Book, candidates []*recommend.Candidate, chosenIds []uuid.UUID, limit int) []*recommend.Candidate {
	vectors := make([][]float32, 0, len(seeds))
	for _, seed := range seeds {
		if seed.HasEmbedding() {
			vectors = append(vectors, seed.Embedding)
		}
	}
	mean := recommend.MeanVector(vectors)
	if mean == nil {
		return candidates
	}

	exclude := make([]uuid.UUID, 0, len(seeds)+len(chosenIds))
	for _, seed := range seeds {
		exclude = append(exclude, seed.Id)
	}
	exclude = append(exclude, chosenIds...)

	seedTitles := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seedTitles[seed.NormalizedTitle()] = true
	}
	chosenTitles := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		chosenTitles[candidate.Book.NormalizedTitle()] = true
	}

	extra, err := s.RecommendByQueryEmbedding(ctx, mean, RecommendOptions{
		Limit:      limit - len(candidates),
		ExcludeIds: exclude,
	})
	if err != nil {
		log.Printf("[WARN] embedding supplement failed: %v", err)
		return candidates
	}

	for _, candidate := range extra {
		if len(candidates) >= limit {
			break
		}
		title := candidate.Book.NormalizedTitle()
		if seedTitles[title] || chosenTitles[title] {
			continue
		}
		// The metadata pool zero-scores seed-author collisions; the
		// supplement honors the same rule.
		if recommend.SharesAuthor(candidate.Book, seeds) {
			continue
		}
		chosenTitles[title] = true
		candidates = append(candidates, candidate)
	}
	return candidates
}

// enrichSuggestions resolves raw LLM suggestions into real store/catalog
// books, enforces exclusions and the author-preference direction, scores
// the survivors, and returns up to limit candidates sorted by confidence.
// External lookups are capped at maxEnrichmentAttempts.
func (s *recommendationService) enrichSuggestions(ctx context.Context, uow unitofwork.UnitOfWork, seeds []*entity.Book, suggestions []recommend.Suggestion, filters recommend.Filters, limit int, excludeTitles []string) ([]*recommend.Candidate, error) {
	prefs := recommend.AnalyzePreferences(seeds)

	excluded := make(map[string]bool, len(seeds)+len(excludeTitles))
	for _, seed := range seeds {
		excluded[seed.NormalizedTitle()] = true
	}
	for _, title := range excludeTitles {
		excluded[strings.ToLower(strings.TrimSpace(title))] = true
	}

	candidates := []*recommend.Candidate{}
	attempts := 0
	for i := range suggestions {
		if len(candidates) >= limit || attempts >= s.maxEnrichmentAttempts {
			break
		}
		attempts++
		suggestion := &suggestions[i]

		book, err := s.resolveSuggestion(ctx, uow, suggestion)
		if err != nil {
			log.Printf("[WARN] failed to enrich suggestion %q: %v", suggestion.Title, err)
			continue
		}

		title := book.NormalizedTitle()
		if title == "" || excluded[title] {
			continue
		}

		// The prompt already asks the model to respect the author
		// preference; this is the programmatic enforcement behind it.
		shares := recommend.SharesAuthor(book, seeds)
		switch filters.AuthorPreference {
		case recommend.AuthorPreferenceNegative:
			if shares {
				continue
			}
		case recommend.AuthorPreferencePositive:
			if !shares {
				continue
			}
		}

		if len(filters.Languages) > 0 {
			lang := strings.ToLower(strings.TrimSpace(book.Language))
			if !containsLanguage(filters.Languages, lang) {
				continue
			}
		}

		score, breakdown := recommend.Score(book, prefs, seeds, filters)
		if score < recommend.MinConfidence {
			continue
		}

		reason := strings.TrimSpace(suggestion.Reason)
		if reason == "" {
			reason = "Suggested for your shelf"
		}

		excluded[title] = true
		b := breakdown
		candidates = append(candidates, &recommend.Candidate{
			Book:       book,
			Confidence: score,
			Reason:     reason,
			Breakdown:  &b,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates, nil
}

// resolveSuggestion turns a bare title/author pair into a full book:
// fuzzy store match first, then one catalog lookup whose top hit is
// upserted. When both come up empty the suggestion itself is the
// metadata.
func (s *recommendationService) resolveSuggestion(ctx context.Context, uow unitofwork.UnitOfWork, suggestion *recommend.Suggestion) (*entity.Book, error) {
	title := strings.TrimSpace(suggestion.Title)

	existing, err := uow.BookRepository().FindOne(ctx, specification.ByTitleILike{Title: title})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	results, err := s.catalog.SearchByTitleAuthor(ctx, title, suggestion.Author)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		hit := results[0]
		hit.Source = entity.BookSourceLLM
		stored, created, err := s.bookService.UpsertByIdentity(ctx, uow, hit, false)
		if err != nil {
			return nil, err
		}
		if created || !stored.HasEmbedding() {
			if err := s.bookService.QueueEmbedding(ctx, stored.Id, false); err != nil {
				log.Printf("[WARN] failed to queue embedding for %q: %v", stored.Title, err)
			}
		}
		return stored, nil
	}

	book := &entity.Book{
		Id:     uuid.New(),
		Title:  title,
		Source: entity.BookSourceLLM,
	}
	if author := strings.TrimSpace(suggestion.Author); author != "" {
		book.Authors = []string{author}
	}
	book.Normalize()
	return book, nil
}

func anyAuthorIn(authors []string, set map[string]bool) bool {
	for _, a := range authors {
		if set[strings.ToLower(strings.TrimSpace(a))] {
			return true
		}
	}
	return false
}

func containsLanguage(languages []string, lang string) bool {
	for _, l := range languages {
		if l == lang {
			return true
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func emptyRecommendationResponse(origin string) *dto.RecommendationResponse {
	return &dto.RecommendationResponse{
		Items:  []dto.CandidateResponse{},
		Origin: origin,
	}
}

func candidatesToResponse(candidates []*recommend.Candidate, origin string, cached bool) *dto.RecommendationResponse {
	items := make([]dto.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		item := dto.CandidateResponse{
			BookId:     candidate.Book.Id,
			Title:      candidate.Book.Title,
			Authors:    candidate.Book.Authors,
			Genres:     candidate.Book.Genres,
			Language:   candidate.Book.Language,
			Year:       candidate.Book.PublicationYear,
			Source:     candidate.Book.Source,
			Confidence: candidate.Confidence,
			Reason:     candidate.Reason,
		}
		if candidate.Breakdown != nil {
			item.Breakdown = &dto.BreakdownResponse{
				Language: candidate.Breakdown.Language,
				Genre:    candidate.Breakdown.Genre,
				Author:   candidate.Breakdown.Author,
				Other:    candidate.Breakdown.Other,
			}
		}
		items = append(items, item)
	}
	return &dto.RecommendationResponse{
		Items:  items,
		Origin: origin,
		Cached: cached,
	}
}
