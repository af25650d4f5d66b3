package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestService loads, splits and indexes documents.
type IngestService interface {
	// Ingest runs one pass per supported file type over opts.Dir.
	// Load failures are reported per pass; store failures abort the run
	// and are returned together with the partial report.
	Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestReport, error)

	// Watch ingests once, then again whenever supported files under
	// opts.Dir change, until ctx is cancelled. Reset applies to the first run only.
	Watch(ctx context.Context, opts domain.IngestOptions, onReport func(*domain.IngestReport, error)) error

	// Sources returns the distinct source paths currently indexed.
	Sources(ctx context.Context) ([]string, error)

	// RecentRuns returns up to limit recorded runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]domain.IngestRun, error)
}
