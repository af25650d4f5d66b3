// Package csv loads CSV files one document per data row.
package csv

import (
	"context"
	gocsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles CSV documents. The first record is the header.
type Loader struct{}

// New creates a new CSV loader.
func New() *Loader {
	return &Loader{}
}

// FileType returns ".csv".
func (l *Loader) FileType() domain.FileType {
	return domain.FileTypeCSV
}

// Load renders every data row as "header: value" lines. Rows may be
// shorter or longer than the header; extra cells get positional names.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := gocsv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var docs []domain.Document
	for row := 0; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		docs = append(docs, domain.Document{
			Source:   path,
			FileType: domain.FileTypeCSV,
			Content:  renderRecord(header, record),
			Metadata: map[string]any{"row": row},
		})
	}
	return docs, nil
}

func renderRecord(header, record []string) string {
	lines := make([]string, len(record))
	for i, value := range record {
		name := fmt.Sprintf("column_%d", i+1)
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			name = strings.TrimSpace(header[i])
		}
		lines[i] = name + ": " + strings.TrimSpace(value)
	}
	return strings.Join(lines, "\n")
}
