package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: load, split, assign IDs, index.
// Each supported file type is an independent pass with its own ID snapshot.
type IngestService struct {
	loaders  driven.LoaderRegistry
	splitter driven.Splitter
	store    driven.VectorStore
	indexer  *Indexer
	runs     driven.IngestRunStore
	watcher  driven.ChangeWatcher

	fileTypes []domain.FileType
	now       func() time.Time
}

// NewIngestService creates a new ingestion service.
// The runs store is optional (can be nil); without it runs are not recorded.
func NewIngestService(
	loaders driven.LoaderRegistry,
	splitter driven.Splitter,
	store driven.VectorStore,
	runs driven.IngestRunStore,
) *IngestService {
	return &IngestService{
		loaders:   loaders,
		splitter:  splitter,
		store:     store,
		indexer:   NewIndexer(store),
		runs:      runs,
		fileTypes: domain.SupportedFileTypes(),
		now:       time.Now,
	}
}

// SetWatcher sets the change watcher used by Watch.
func (s *IngestService) SetWatcher(w driven.ChangeWatcher) {
	s.watcher = w
}

// Ingest runs one pass per supported file type over opts.Dir.
func (s *IngestService) Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestReport, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("%w: ingest directory is required", domain.ErrInvalidInput)
	}

	report := &domain.IngestReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		Reset:     opts.Reset,
	}

	logger.Section("Ingest")
	logger.Info("Run %s over %s", report.RunID, opts.Dir)

	err := s.run(ctx, opts, report)
	s.finish(ctx, report)
	return report, err
}

func (s *IngestService) run(ctx context.Context, opts domain.IngestOptions, report *domain.IngestReport) error {
	if opts.Reset {
		if err := s.store.Reset(ctx); err != nil {
			return storeErr(domain.ErrStoreWrite, "reset", err)
		}
		logger.Info("Vector store cleared")
	}

	for _, ft := range s.fileTypes {
		if err := ctx.Err(); err != nil {
			return err
		}

		pass, err := s.runPass(ctx, opts.Dir, ft)
		report.Passes = append(report.Passes, pass)
		if err != nil {
			return err
		}
	}
	return nil
}

// runPass loads, splits, identifies and indexes one file type. Load errors
// are recorded on the pass; only store errors are returned.
func (s *IngestService) runPass(ctx context.Context, dir string, ft domain.FileType) (domain.PassReport, error) {
	pass := domain.PassReport{FileType: ft}

	docs, err := s.loaders.LoadDir(ctx, dir, ft)
	if err != nil {
		pass.Err = err
		logger.Warn("Skipping %s pass: %v", ft, err)
		return pass, nil
	}
	pass.Documents = len(docs)
	if len(docs) == 0 {
		logger.Debug("No %s documents", ft)
		return pass, nil
	}

	chunks := slices.Collect(AssignChunkIDs(s.splitAll(docs)))
	pass.Chunks = len(chunks)

	result, err := s.indexer.Index(ctx, chunks)
	pass.Existing = result.Existing
	pass.Added = result.Added
	if err != nil {
		pass.Err = err
		return pass, fmt.Errorf("%s pass: %w", ft, err)
	}

	logger.Info("%s: %d documents, %d chunks, %d existing, %d added",
		ft, pass.Documents, pass.Chunks, pass.Existing, pass.Added)
	return pass, nil
}

// splitAll chains the chunks of every document in load order.
func (s *IngestService) splitAll(docs []domain.Document) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		for _, doc := range docs {
			for chunk := range s.splitter.Split(doc) {
				if !yield(chunk) {
					return
				}
			}
		}
	}
}

// finish stamps the report and records the run. Recording failures are logged only.
func (s *IngestService) finish(ctx context.Context, report *domain.IngestReport) {
	report.FinishedAt = s.now()
	logger.Elapsed("Ingest", report.StartedAt)

	if s.runs == nil {
		return
	}
	run := domain.IngestRun{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Passes:     report.Summaries(),
	}
	if err := s.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record ingest run %s: %v", report.RunID, err)
	}
}

// Watch ingests once, then again after every batch of file changes.
func (s *IngestService) Watch(
	ctx context.Context,
	opts domain.IngestOptions,
	onReport func(*domain.IngestReport, error),
) error {
	if s.watcher == nil {
		return fmt.Errorf("%w: no change watcher configured", domain.ErrUnsupportedType)
	}

	changes, err := s.watcher.Watch(ctx, opts.Dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", opts.Dir, err)
	}

	report, err := s.Ingest(ctx, opts)
	notify(onReport, report, err)

	// Reset applies to the first run only.
	opts.Reset = false

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Detected %d changed files, re-ingesting", len(paths))
			report, err := s.Ingest(ctx, opts)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			notify(onReport, report, err)
		}
	}
}

func notify(onReport func(*domain.IngestReport, error), report *domain.IngestReport, err error) {
	if onReport != nil {
		onReport(report, err)
	}
}

// Sources returns the distinct source paths currently indexed.
func (s *IngestService) Sources(ctx context.Context) ([]string, error) {
	sources, err := s.store.ListDistinctSources(ctx)
	if err != nil {
		return nil, storeErr(domain.ErrStoreRead, "list sources", err)
	}
	return sources, nil
}

// RecentRuns returns up to limit recorded runs, newest first.
func (s *IngestService) RecentRuns(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	runs, err := s.runs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}

// storeErr wraps err with op, adding sentinel unless err already carries it.
func storeErr(sentinel error, op string, err error) error {
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, op, err)
}
