package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/internal/repository/specification"
	"bookshelf-ai-be/internal/repository/unitofwork"
	"bookshelf-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.BookRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Book Repository", func(t *testing.T) {
		count, err := uow.BookRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Book count: %d", count)
	})

	t.Run("Transactional Seed Replacement", func(t *testing.T) {
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		year := 1965
		book := &entity.Book{
			Id:              uuid.New(),
			Title:           "Integration Seed " + uuid.New().String(),
			Authors:         []string{"Integration Author"},
			Genres:          []string{"science fiction"},
			PublicationYear: &year,
			Language:        "en",
			Source:          entity.BookSourceScan,
			IsSeed:          true,
		}
		book.Normalize()

		err = uow.BookRepository().Create(ctx, book)
		assert.NoError(t, err)

		stored, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: book.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, stored) {
			assert.True(t, stored.IsSeed)
			assert.Equal(t, []string{"Integration Author"}, stored.Authors)
		}

		err = uow.BookRepository().DeleteAllSeeds(ctx)
		assert.NoError(t, err)

		gone, err := uow.BookRepository().FindOne(ctx, specification.ByID{ID: book.Id})
		assert.NoError(t, err)
		assert.Nil(t, gone)

		// Rollback via defer: the shelf is untouched after this test.
		t.Log("Seed insert, round-trip and wholesale delete work inside a transaction")
	})
}
