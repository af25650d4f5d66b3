package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// IndexResult reports what one indexing call did.
type IndexResult struct {
	// Existing is the number of batch chunks already present in the store.
	Existing int

	// Added is the number of chunks upserted.
	Added int
}

// Indexer upserts only the chunks whose IDs the vector store does not hold yet.
//
// Dedup is by ID equality alone. A changed file whose chunks reuse the same
// (source, page, index) triples keeps its stale content until the store is reset.
type Indexer struct {
	store driven.VectorStore

	// mu makes the ListIDs snapshot and the following Upsert atomic
	// relative to other callers sharing this Indexer.
	mu sync.Mutex
}

// NewIndexer creates an indexer over the given store.
func NewIndexer(store driven.VectorStore) *Indexer {
	return &Indexer{store: store}
}

// Index upserts the chunks of batch whose IDs are not yet stored.
// Every chunk must already carry its ID. When the batch repeats an ID,
// the first occurrence wins.
func (i *Indexer) Index(ctx context.Context, batch []domain.Chunk) (IndexResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	existing, err := i.store.ListIDs(ctx)
	if err != nil {
		return IndexResult{}, storeErr(domain.ErrStoreRead, "list ids", err)
	}

	fresh := newChunks(batch, existing)
	result := IndexResult{Existing: len(batch) - len(fresh)}

	logger.Debug("Indexer: %d chunks in batch, %d already stored, %d new", len(batch), result.Existing, len(fresh))

	if len(fresh) == 0 {
		return result, nil
	}

	if err := i.store.Upsert(ctx, fresh); err != nil {
		return result, storeErr(domain.ErrStoreWrite, "upsert", err)
	}
	result.Added = len(fresh)
	return result, nil
}

// newChunks returns the chunks of batch absent from existing, in batch order.
func newChunks(batch []domain.Chunk, existing map[string]struct{}) []domain.Chunk {
	seen := make(map[string]struct{}, len(batch))
	var fresh []domain.Chunk
	for _, chunk := range batch {
		if _, ok := existing[chunk.ID]; ok {
			continue
		}
		if _, dup := seen[chunk.ID]; dup {
			continue
		}
		seen[chunk.ID] = struct{}{}
		fresh = append(fresh, chunk)
	}
	return fresh
}
