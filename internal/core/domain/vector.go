package domain

import "math"

// Cosine computes the cosine similarity between two vectors.
// Both vectors must have the same length; a mismatch is a hard error
// since it means the vectors came from different embedding models.
// A zero vector carries no directional information, so comparisons
// against it return 0 rather than NaN.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// ClampScore bounds a score to the meaningful [0,1] range.
// Cosine similarity is mathematically in [-1,1] but negative similarity
// has no retrieval value here.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
