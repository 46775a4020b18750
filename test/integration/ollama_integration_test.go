// Live-backend checks for the local Ollama setup: the embedding provider
// and the recommendation prompt round-trip. Skipped automatically when no
// Ollama server is reachable.

package integration

import (
	"context"
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"bookshelf-ai-be/internal/entity"
	"bookshelf-ai-be/pkg/embedding"
	"bookshelf-ai-be/pkg/llm/ollama"
	"bookshelf-ai-be/pkg/recommend"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	embeddingModel       = "nomic-embed-text"
	chatModel            = "gemma:2b"
)

func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return defaultOllamaBaseURL
}

func requireOllama(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ollamaBaseURL(), nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Skipf("Skipping: Ollama not running at %s: %v", ollamaBaseURL(), err)
	}
	res.Body.Close()
}

// TestOllamaEmbeddingRoundTrip checks the embedding provider returns a
// unit-length vector and that related books land closer than unrelated
// ones.
func TestOllamaEmbeddingRoundTrip(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	provider := embedding.NewOllamaProvider(ollamaBaseURL(), embeddingModel)

	dune, err := provider.Generate(ctx, "Title: Dune\nAuthors: Frank Herbert\nGenres: science fiction")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(dune) == 0 {
		t.Fatal("Expected a non-empty vector")
	}

	var norm float64
	for _, v := range dune {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-3 {
		t.Errorf("Expected a unit-length vector, got norm %f", math.Sqrt(norm))
	}

	hyperion, err := provider.Generate(ctx, "Title: Hyperion\nAuthors: Dan Simmons\nGenres: science fiction, space opera")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	cookbook, err := provider.Generate(ctx, "Title: Cooking at Home\nAuthors: B. Stove\nGenres: cooking")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	sciFi := recommend.Cosine(dune, hyperion)
	offTopic := recommend.Cosine(dune, cookbook)
	t.Logf("similarity dune/hyperion=%f dune/cookbook=%f", sciFi, offTopic)
	if sciFi <= offTopic {
		t.Errorf("Expected the science-fiction pair to be closer: %f <= %f", sciFi, offTopic)
	}
}

// TestOllamaRecommendationPrompt sends the real recommendation prompt to
// a local model and checks the reply parses into suggestions.
func TestOllamaRecommendationPrompt(t *testing.T) {
	requireOllama(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	year := 1965
	seeds := []*entity.Book{
		{
			Title:           "Dune",
			Authors:         []string{"Frank Herbert"},
			Genres:          []string{"science fiction"},
			Language:        "en",
			PublicationYear: &year,
		},
	}
	filters := recommend.Filters{}
	filters.Normalize()

	system, user := recommend.BuildPrompts(seeds, filters, 3)

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), chatModel)
	raw, err := provider.Complete(ctx, system, user)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	t.Logf("raw model reply: %s", raw)

	suggestions := recommend.ParseSuggestions(raw)
	if len(suggestions) == 0 {
		t.Skipf("Model reply did not parse into suggestions; model %s may need different prompting", chatModel)
	}
	for _, s := range suggestions {
		t.Logf("suggestion: %q by %q (%s)", s.Title, s.Author, s.Reason)
		if s.Title == "" {
			t.Error("Parsed suggestion with empty title")
		}
	}
}
