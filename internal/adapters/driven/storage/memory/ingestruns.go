package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure IngestRunStore implements the interface.
var _ driven.IngestRunStore = (*IngestRunStore)(nil)

// IngestRunStore is an in-memory implementation of driven.IngestRunStore.
type IngestRunStore struct {
	mu   sync.RWMutex
	runs []domain.IngestRun
}

// NewIngestRunStore creates a new in-memory ingest run store.
func NewIngestRunStore() *IngestRunStore {
	return &IngestRunStore{}
}

// Record saves a finished run.
func (s *IngestRunStore) Record(_ context.Context, run domain.IngestRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Passes = slices.Clone(run.Passes)
	s.runs = append(s.runs, run)
	return nil
}

// Recent returns up to limit runs, newest first. A limit below 1 returns all.
func (s *IngestRunStore) Recent(_ context.Context, limit int) ([]domain.IngestRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.runs)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
