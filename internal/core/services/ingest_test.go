package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestLoaders() *mockLoaderRegistry {
	return &mockLoaderRegistry{
		docs: map[domain.FileType][]domain.Document{
			domain.FileTypePDF: {
				{Source: "data/a.pdf", Page: 0, FileType: domain.FileTypePDF, Content: "alpha one\nalpha two"},
				{Source: "data/a.pdf", Page: 1, FileType: domain.FileTypePDF, Content: "alpha three"},
			},
			domain.FileTypeMD: {
				{Source: "data/b.md", Page: 0, FileType: domain.FileTypeMD, Content: "beta one"},
			},
		},
		errs: map[domain.FileType]error{},
	}
}

func newTestIngestService(loaders *mockLoaderRegistry, store *mockVectorStore, runs *mockRunStore) *IngestService {
	return NewIngestService(loaders, lineSplitter{}, store, runs)
}

func TestIngestService_Ingest(t *testing.T) {
	store := newMockVectorStore()
	runs := &mockRunStore{}
	service := newTestIngestService(newTestLoaders(), store, runs)

	report, err := service.Ingest(context.Background(), domain.IngestOptions{Dir: "data"})

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Passes, len(domain.SupportedFileTypes()))
	assert.Equal(t, 4, report.Added())
	assert.Equal(t, []string{"data/a.pdf:0:0", "data/a.pdf:0:1", "data/a.pdf:1:0", "data/b.md:0:0"}, store.ids())

	pdf := report.Passes[0]
	assert.Equal(t, domain.FileTypePDF, pdf.FileType)
	assert.Equal(t, 2, pdf.Documents)
	assert.Equal(t, 3, pdf.Chunks)
	assert.Equal(t, 3, pdf.Added)

	require.Len(t, runs.runs, 1)
	assert.Equal(t, report.RunID, runs.runs[0].ID)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestIngestService_IngestTwiceIsIdempotent(t *testing.T) {
	store := newMockVectorStore()
	service := newTestIngestService(newTestLoaders(), store, nil)
	ctx := context.Background()

	_, err := service.Ingest(ctx, domain.IngestOptions{Dir: "data"})
	require.NoError(t, err)
	afterFirst := store.ids()

	report, err := service.Ingest(ctx, domain.IngestOptions{Dir: "data"})
	require.NoError(t, err)

	assert.Equal(t, afterFirst, store.ids())
	assert.Equal(t, 0, report.Added())
	assert.Equal(t, 3, report.Passes[0].Existing)
}

func TestIngestService_LoadErrorSkipsPass(t *testing.T) {
	loaders := newTestLoaders()
	loaders.errs[domain.FileTypePDF] = fmt.Errorf("%w: data/a.pdf: corrupt", domain.ErrLoad)
	store := newMockVectorStore()
	service := newTestIngestService(loaders, store, nil)

	report, err := service.Ingest(context.Background(), domain.IngestOptions{Dir: "data"})

	require.NoError(t, err)
	failed := report.FailedPasses()
	require.Len(t, failed, 1)
	assert.Equal(t, domain.FileTypePDF, failed[0].FileType)
	assert.ErrorIs(t, failed[0].Err, domain.ErrLoad)
	assert.Equal(t, []string{"data/b.md:0:0"}, store.ids())
}

func TestIngestService_StoreErrorAborts(t *testing.T) {
	store := newMockVectorStore()
	store.upsertErr = errBoom
	runs := &mockRunStore{}
	service := newTestIngestService(newTestLoaders(), store, runs)

	report, err := service.Ingest(context.Background(), domain.IngestOptions{Dir: "data"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreWrite)
	require.NotNil(t, report)
	require.Len(t, report.Passes, 1, "later passes must not run")
	assert.ErrorIs(t, report.Passes[0].Err, domain.ErrStoreWrite)
	assert.Empty(t, store.ids())
	assert.Len(t, runs.runs, 1, "aborted runs are still recorded")
}

func TestIngestService_Reset(t *testing.T) {
	store := newMockVectorStore(idChunks("old.md:0:0")...)
	service := newTestIngestService(newTestLoaders(), store, nil)

	report, err := service.Ingest(context.Background(), domain.IngestOptions{Dir: "data", Reset: true})

	require.NoError(t, err)
	assert.True(t, report.Reset)
	assert.NotContains(t, store.ids(), "old.md:0:0")
	assert.Len(t, store.ids(), 4)
}

func TestIngestService_ResetFailure(t *testing.T) {
	store := newMockVectorStore()
	store.resetErr = errBoom
	service := newTestIngestService(newTestLoaders(), store, nil)

	report, err := service.Ingest(context.Background(), domain.IngestOptions{Dir: "data", Reset: true})

	assert.ErrorIs(t, err, domain.ErrStoreWrite)
	require.NotNil(t, report)
	assert.Empty(t, report.Passes)
}

func TestIngestService_RequiresDir(t *testing.T) {
	service := newTestIngestService(newTestLoaders(), newMockVectorStore(), nil)

	_, err := service.Ingest(context.Background(), domain.IngestOptions{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_CancelledContext(t *testing.T) {
	store := newMockVectorStore()
	service := newTestIngestService(newTestLoaders(), store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Ingest(ctx, domain.IngestOptions{Dir: "data"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.ids())
}

func TestIngestService_Sources(t *testing.T) {
	store := newMockVectorStore(idChunks("b.md:0:0", "a.pdf:0:0", "a.pdf:1:0")...)
	service := newTestIngestService(newTestLoaders(), store, nil)

	sources, err := service.Sources(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.md"}, sources)
}

func TestIngestService_SourcesError(t *testing.T) {
	store := newMockVectorStore()
	store.listErr = errBoom
	service := newTestIngestService(newTestLoaders(), store, nil)

	_, err := service.Sources(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreRead)
}

func TestIngestService_RecentRuns(t *testing.T) {
	runs := &mockRunStore{}
	service := newTestIngestService(newTestLoaders(), newMockVectorStore(), runs)
	ctx := context.Background()

	first, err := service.Ingest(ctx, domain.IngestOptions{Dir: "data"})
	require.NoError(t, err)
	second, err := service.Ingest(ctx, domain.IngestOptions{Dir: "data"})
	require.NoError(t, err)

	recent, err := service.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.RunID, recent[0].ID)
	assert.Equal(t, first.RunID, recent[1].ID)
}

func TestIngestService_RecentRunsWithoutStore(t *testing.T) {
	service := newTestIngestService(newTestLoaders(), newMockVectorStore(), nil)

	runs, err := service.RecentRuns(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestIngestService_WatchWithoutWatcher(t *testing.T) {
	service := newTestIngestService(newTestLoaders(), newMockVectorStore(), nil)

	err := service.Watch(context.Background(), domain.IngestOptions{Dir: "data"}, nil)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestIngestService_WatchReingestsOnChanges(t *testing.T) {
	loaders := newTestLoaders()
	store := newMockVectorStore()
	service := newTestIngestService(loaders, store, nil)
	watcher := &mockWatcher{changes: make(chan []string)}
	service.SetWatcher(watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reports []*domain.IngestReport
	done := make(chan error, 1)
	go func() {
		done <- service.Watch(ctx, domain.IngestOptions{Dir: "data", Reset: true}, func(r *domain.IngestReport, err error) {
			assert.NoError(t, err)
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
		})
	}()

	watcher.changes <- []string{"data/c.md"}
	watcher.changes <- []string{"data/c.md"}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after cancellation")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(reports), 2)
	assert.True(t, reports[0].Reset)
	assert.False(t, reports[1].Reset, "reset applies to the first run only")
}
