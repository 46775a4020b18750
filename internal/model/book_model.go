package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Book struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string          `gorm:"type:varchar(512);not null;index"`
	Authors         datatypes.JSON  `gorm:"type:jsonb"`
	Genres          datatypes.JSON  `gorm:"type:jsonb"`
	Categories      datatypes.JSON  `gorm:"type:jsonb"`
	SeriesName      *string         `gorm:"type:varchar(255)"`
	SeriesNumber    *int
	PublicationYear *int            `gorm:"index"`
	Publisher       string          `gorm:"type:varchar(255)"`
	PageCount       *int
	ISBN10          string          `gorm:"type:varchar(10);column:isbn_10;index"`
	ISBN13          string          `gorm:"type:varchar(13);column:isbn_13;index"`
	Language        string          `gorm:"type:varchar(8)"`
	Description     string          `gorm:"type:text"`
	MaturityRating  string          `gorm:"type:varchar(32)"`
	Source          string          `gorm:"type:varchar(16);index"`
	IsSeed          bool            `gorm:"index"`
	Embedding       *pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / jina-v2-base-en dimension; NULL until embedded
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (Book) TableName() string {
	return "books"
}
