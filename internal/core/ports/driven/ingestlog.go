package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestRunStore keeps a log of finished ingestion runs.
type IngestRunStore interface {
	// Record saves a finished run.
	Record(ctx context.Context, run domain.IngestRun) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
