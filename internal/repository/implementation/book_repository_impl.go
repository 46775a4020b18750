package implementation

import (
	"context"
	"errors"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/mapper"
	"bookshelf-ai-be/internal/model"
	"bookshelf-ai-be/internal/repository/contract"
	"bookshelf-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type BookRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookMapper
}

func NewBookRepository(db *gorm.DB) contract.BookRepository {
	return &BookRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookMapper(),
	}
}

func (r *BookRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookRepositoryImpl) Create(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) Update(ctx context.Context, book *entity.Book) error {
	m := r.mapper.ToModel(book)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*book = *r.mapper.ToEntity(m)
	return nil
}

func (r *BookRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, id).Error
}

func (r *BookRepositoryImpl) DeleteAllSeeds(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("is_seed = ?", true).Delete(&model.Book{}).Error
}

func (r *BookRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Book, error) {
	var m model.Book
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BookRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Book, error) {
	var models []*model.Book
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Book, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *BookRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Book{}).Count(&count).Error
	return count, err
}

func (r *BookRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, excludeIds []uuid.UUID) ([]*contract.ScoredBook, error) {
	if limit <= 0 {
		limit = 10
	}

	// pgvector cosine distance is 1 - cosine_similarity, so
	// 1 - (embedding <=> query_vector) recovers the similarity.
	type result struct {
		model.Book
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("books").
		Select("books.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("embedding IS NOT NULL").
		Where("deleted_at IS NULL")

	if len(excludeIds) > 0 {
		query = query.Where("id NOT IN ?", excludeIds)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredBook, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredBook{
			Book:       r.mapper.ToEntity(&res.Book),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
