package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations must return unit-length vectors so pgvector cosine
// scans stay accurate; determinism is expected but bit-exactness is not.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
