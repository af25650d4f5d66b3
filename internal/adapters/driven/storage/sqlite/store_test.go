package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, dbFileName), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_RecordsMigrations(t *testing.T) {
	store := setupTestStore(t)

	var count, maxVersion int
	row := store.db.QueryRow("SELECT COUNT(*), MAX(version) FROM schema_migrations")
	require.NoError(t, row.Scan(&count, &maxVersion))

	assert.Equal(t, 4, count)
	assert.Equal(t, 4, maxVersion)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 4, count)
}

func TestNewStore_CreatesTables(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"history", "sessions", "vectors", "ingest_runs"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

// ==================== Helper Function Tests ====================

func TestFloat32SliceConversion(t *testing.T) {
	original := []float32{0, 1.5, -2.25, 3.4028235e38}

	got := bytesToFloat32Slice(float32SliceToBytes(original))

	assert.Equal(t, original, got)
	assert.Nil(t, bytesToFloat32Slice(nil))
}
