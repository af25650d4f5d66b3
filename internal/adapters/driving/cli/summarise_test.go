package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

func TestSummariseCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.summary = &domain.Summary{SessionID: "3", Content: "Two guides about setup.", Chunks: 8}

	out, err := execute(t, "", "summarise", "--dir", "docs", "--session", "3")

	require.NoError(t, err)
	assert.Equal(t, driving.SummaryOptions{Dir: "docs", SessionID: "3"}, ts.summary.opts)
	assert.Contains(t, out, "Two guides about setup.")
	assert.Contains(t, out, "Summarised 8 chunks into session 3.")
}

func TestSummariseCmd_Alias(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.summary = &domain.Summary{SessionID: "1", Content: "ok"}

	_, err := execute(t, "", "summarize")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDataDir, ts.summary.opts.Dir)
}

func TestSummariseCmd_Error(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.summary.err = domain.ErrGeneration

	_, err := execute(t, "", "summarise")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}
