package mapper

import (
	"encoding/json"
	"time"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type BookMapper struct{}

func NewBookMapper() *BookMapper {
	return &BookMapper{}
}

func (m *BookMapper) ToEntity(b *model.Book) *entity.Book {
	if b == nil {
		return nil
	}

	var deletedAt *time.Time
	if b.DeletedAt.Valid {
		t := b.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	e := &entity.Book{
		Id:              b.Id,
		Title:           b.Title,
		Authors:         jsonToList(b.Authors),
		Genres:          jsonToList(b.Genres),
		Categories:      jsonToList(b.Categories),
		SeriesName:      b.SeriesName,
		SeriesNumber:    b.SeriesNumber,
		PublicationYear: b.PublicationYear,
		Publisher:       b.Publisher,
		PageCount:       b.PageCount,
		ISBN10:          b.ISBN10,
		ISBN13:          b.ISBN13,
		Language:        b.Language,
		Description:     b.Description,
		MaturityRating:  b.MaturityRating,
		Source:          b.Source,
		IsSeed:          b.IsSeed,
		Embedding:       vectorToSlice(b.Embedding),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       b.DeletedAt.Valid,
	}
	e.Normalize()
	return e
}

func (m *BookMapper) ToModel(e *entity.Book) *model.Book {
	if e == nil {
		return nil
	}

	b := &model.Book{
		Id:              e.Id,
		Title:           e.Title,
		Authors:         listToJSON(e.Authors),
		Genres:          listToJSON(e.Genres),
		Categories:      listToJSON(e.Categories),
		SeriesName:      e.SeriesName,
		SeriesNumber:    e.SeriesNumber,
		PublicationYear: e.PublicationYear,
		Publisher:       e.Publisher,
		PageCount:       e.PageCount,
		ISBN10:          e.ISBN10,
		ISBN13:          e.ISBN13,
		Language:        e.Language,
		Description:     e.Description,
		MaturityRating:  e.MaturityRating,
		Source:          e.Source,
		IsSeed:          e.IsSeed,
		Embedding:       sliceToVector(e.Embedding),
		CreatedAt:       e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		b.UpdatedAt = *e.UpdatedAt
	}
	return b
}

func vectorToSlice(v *pgvector.Vector) []float32 {
	if v == nil {
		return nil
	}
	return v.Slice()
}

// sliceToVector keeps the column NULL for unembedded books so the
// "embedding IS NOT NULL" scans stay meaningful.
func sliceToVector(values []float32) *pgvector.Vector {
	if len(values) == 0 {
		return nil
	}
	v := pgvector.NewVector(values)
	return &v
}

func jsonToList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func listToJSON(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}
