package specification

import (
	"gorm.io/gorm"
)

// SeedsOnly restricts to the current seed set.
type SeedsOnly struct{}

func (s SeedsOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_seed = ?", true)
}

// ByTitleILike matches the title case-insensitively (fuzzy contains).
type ByTitleILike struct {
	Title string
}

func (s ByTitleILike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Title+"%")
}

// ByISBN matches either ISBN column.
type ByISBN struct {
	ISBN string
}

func (s ByISBN) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("isbn_13 = ? OR isbn_10 = ?", s.ISBN, s.ISBN)
}
