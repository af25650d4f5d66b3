package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type entry struct {
	chunk     domain.Chunk
	embedding []float32
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Query scores every entry by cosine similarity.
type VectorStore struct {
	embedder driven.EmbeddingService

	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore(embedder driven.EmbeddingService) *VectorStore {
	return &VectorStore{
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Upsert embeds and stores chunks. Nothing is stored if embedding fails.
func (s *VectorStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed: %w", domain.ErrStoreWrite, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrStoreWrite, len(embeddings), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		if _, ok := s.entries[c.ID]; !ok {
			s.order = append(s.order, c.ID)
		}
		s.entries[c.ID] = entry{chunk: c, embedding: embeddings[i]}
	}
	return nil
}

// ListIDs returns every stored ChunkID.
func (s *VectorStore) ListIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.entries))
	for id := range s.entries {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// Query returns at most k chunks ranked by cosine similarity to text.
func (s *VectorStore) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrStoreRead, err)
	}

	s.mu.RLock()
	results := make([]domain.ScoredChunk, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		results = append(results, domain.ScoredChunk{Chunk: e.chunk, Score: similarity.Cosine(query, e.embedding)})
	}
	s.mu.RUnlock()

	return similarity.TopK(results, k), nil
}

// ListDistinctSources returns the sorted source paths of stored chunks.
func (s *VectorStore) ListDistinctSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make(map[string]struct{})
	for id := range s.entries {
		sources[domain.SourceOfChunkID(id)] = struct{}{}
	}
	return slices.Sorted(maps.Keys(sources)), nil
}

// Reset removes every entry.
func (s *VectorStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
	s.order = nil
	return nil
}
