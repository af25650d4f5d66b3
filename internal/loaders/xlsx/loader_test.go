package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"product", "price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"lamp", 25}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"desk", 180}))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "B2", "discontinued items"))

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestNew(t *testing.T) {
	assert.Equal(t, domain.FileTypeXLSX, New().FileType())
}

func TestLoad_OneDocumentPerSheet(t *testing.T) {
	path := writeTestWorkbook(t)

	docs, err := New().Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, 0, docs[0].Page)
	assert.Equal(t, "Sheet1", docs[0].Metadata["sheet"])
	assert.Equal(t, "product\tprice\nlamp\t25\ndesk\t180", docs[0].Content)

	assert.Equal(t, 1, docs[1].Page)
	assert.Equal(t, "Notes", docs[1].Metadata["sheet"])
	assert.Equal(t, "\tdiscontinued items", docs[1].Content)
	assert.Equal(t, domain.FileTypeXLSX, docs[1].FileType)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New().Load(context.Background(), "/non/existent.xlsx")

	assert.Error(t, err)
}

func TestRenderRows(t *testing.T) {
	assert.Equal(t, "a\tb\nc", renderRows([][]string{{"a", "b"}, {}, {"", ""}, {"c", ""}}))
	assert.Empty(t, renderRows(nil))
}
