// Package xlsx loads Excel workbooks one document per sheet.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles XLSX documents.
type Loader struct{}

// New creates a new XLSX loader.
func New() *Loader {
	return &Loader{}
}

// FileType returns ".xlsx".
func (l *Loader) FileType() domain.FileType {
	return domain.FileTypeXLSX
}

// Load renders each sheet as tab-separated rows, skipping empty rows.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	docs := make([]domain.Document, 0, len(sheets))
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		docs = append(docs, domain.Document{
			Source:   path,
			Page:     i,
			FileType: domain.FileTypeXLSX,
			Content:  renderRows(rows),
			Metadata: map[string]any{"sheet": sheet},
		})
	}
	return docs, nil
}

func renderRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
