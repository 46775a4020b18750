package recommend

import "math"

// Cosine computes cosine similarity between two embedding vectors.
// Vectors of different lengths are compared over the shorter length.
// Returns 0 when either vector is empty or when a norm product is zero,
// so callers never have to guard against division by zero.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// MeanVector averages a set of equal-dimension vectors, skipping empty
// ones. Returns nil when no vector contributes.
func MeanVector(vectors [][]float32) []float32 {
	var dim int
	for _, v := range vectors {
		if len(v) > 0 {
			dim = len(v)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	count := 0
	for _, v := range vectors {
		if len(v) == 0 {
			continue
		}
		count++
		for i := 0; i < dim && i < len(v); i++ {
			sum[i] += float64(v[i])
		}
	}
	if count == 0 {
		return nil
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(count))
	}
	return mean
}
