package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ingestRunStore implements driven.IngestRunStore.
type ingestRunStore struct {
	store *Store
}

var _ driven.IngestRunStore = (*ingestRunStore)(nil)

// Record saves a finished run. Recording the same id twice replaces it.
func (s *ingestRunStore) Record(ctx context.Context, run domain.IngestRun) error {
	passes, err := json.Marshal(run.Passes)
	if err != nil {
		return fmt.Errorf("marshalling passes: %w", err)
	}
	if run.Passes == nil {
		passes = []byte("[]")
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, started_at, finished_at, passes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			passes = excluded.passes
	`, run.ID, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(), string(passes))
	if err != nil {
		return fmt.Errorf("saving ingest run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A limit below 1 returns all.
func (s *ingestRunStore) Recent(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if limit < 1 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, passes
		FROM ingest_runs ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			run               domain.IngestRun
			started, finished int64
			passes            string
		)
		if err := rows.Scan(&run.ID, &started, &finished, &passes); err != nil {
			return nil, fmt.Errorf("scanning ingest run: %w", err)
		}
		run.StartedAt = time.Unix(0, started)
		run.FinishedAt = time.Unix(0, finished)
		if err := json.Unmarshal([]byte(passes), &run.Passes); err != nil {
			return nil, fmt.Errorf("unmarshalling passes for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingest runs: %w", err)
	}
	return runs, nil
}
