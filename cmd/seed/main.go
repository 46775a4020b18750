package main

import (
	"encoding/json"
	"log"
	"os"

	"bookshelf-ai-be/internal/model"
	"bookshelf-ai-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seeds a small demo shelf so the recommendation endpoints have something
// to work with before the first scan. Safe to re-run: existing titles are
// skipped by ISBN-13.

type shelfBook struct {
	Title     string
	Authors   []string
	Genres    []string
	Year      int
	Publisher string
	ISBN13    string
	Language  string
}

var demoShelf = []shelfBook{
	{"Dune", []string{"Frank Herbert"}, []string{"science fiction"}, 1965, "Chilton Books", "9780441013593", "en"},
	{"Hyperion", []string{"Dan Simmons"}, []string{"science fiction", "space opera"}, 1989, "Doubleday", "9780553283686", "en"},
	{"The Left Hand of Darkness", []string{"Ursula K. Le Guin"}, []string{"science fiction"}, 1969, "Ace Books", "9780441478125", "en"},
	{"Project Hail Mary", []string{"Andy Weir"}, []string{"science fiction"}, 2021, "Ballantine Books", "9780593135204", "en"},
	{"The Name of the Wind", []string{"Patrick Rothfuss"}, []string{"fantasy"}, 2007, "DAW Books", "9780756404741", "en"},
}

func toJSON(values []string) datatypes.JSON {
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding demo shelf (%d books)...", len(demoShelf))

	inserted := 0
	for _, b := range demoShelf {
		var existing model.Book
		err := db.Where("isbn_13 = ?", b.ISBN13).First(&existing).Error
		if err == nil {
			color.Yellow("  skip: %q already on shelf", b.Title)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			color.Red("Error: lookup failed for %q: %v", b.Title, err)
			os.Exit(1)
		}

		year := b.Year
		record := model.Book{
			Title:           b.Title,
			Authors:         toJSON(b.Authors),
			Genres:          toJSON(b.Genres),
			PublicationYear: &year,
			Publisher:       b.Publisher,
			ISBN13:          b.ISBN13,
			Language:        b.Language,
			Source:          "scan",
			IsSeed:          true,
		}
		if err := db.Create(&record).Error; err != nil {
			color.Red("Error: insert failed for %q: %v", b.Title, err)
			os.Exit(1)
		}
		color.Green("  seeded: %s — %s", b.Title, b.Authors[0])
		inserted++
	}

	color.Green("✅ Done: %d new seed books (embeddings generate on first server run)", inserted)
}
