// Package pdf loads PDF files one document per page.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles PDF documents.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// FileType returns ".pdf".
func (l *Loader) FileType() domain.FileType {
	return domain.FileTypePDF
}

// Load extracts the plain text of every page. Pages without a content
// stream yield empty documents so page numbers stay aligned.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	docs := make([]domain.Document, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var text string
		page := r.Page(i)
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", i, err)
			}
		}

		docs = append(docs, domain.Document{
			Source:   path,
			Page:     i - 1,
			FileType: domain.FileTypePDF,
			Content:  strings.TrimSpace(text),
			Metadata: map[string]any{"total_pages": total},
		})
	}
	return docs, nil
}
