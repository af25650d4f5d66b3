package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// VectorStore is the capability boundary around embedding and
// nearest-neighbour search. It owns its persisted state and computes
// embeddings internally.
//
// Writes become visible to ListIDs and Query as soon as Upsert returns.
// Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert embeds and stores the chunks under their IDs.
	// Fails with domain.ErrStoreWrite; on failure nothing is stored.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// ListIDs returns every ChunkID currently stored.
	ListIDs(ctx context.Context) (map[string]struct{}, error)

	// Query embeds text and returns at most k chunks ranked by descending score.
	// Fails with domain.ErrStoreRead.
	Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error)

	// ListDistinctSources returns the sorted set of source paths, derived
	// from the stored ChunkIDs.
	ListDistinctSources(ctx context.Context) ([]string, error)

	// Reset removes every stored chunk.
	Reset(ctx context.Context) error
}
