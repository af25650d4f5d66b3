// Package similarity scores stored embeddings against a query vector.
package similarity

import (
	"cmp"
	"math"
	"slices"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Mismatched lengths and zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK sorts results by descending score and keeps at most k.
// Ties keep their input order.
func TopK(results []domain.ScoredChunk, k int) []domain.ScoredChunk {
	slices.SortStableFunc(results, func(a, b domain.ScoredChunk) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k < 0 {
		k = 0
	}
	if len(results) > k {
		results = results[:k]
	}
	return results
}
