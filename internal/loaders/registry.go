package loaders

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/connectors/filesystem"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/loaders/csv"
	"github.com/custodia-labs/docchat/internal/loaders/docx"
	"github.com/custodia-labs/docchat/internal/loaders/markdown"
	"github.com/custodia-labs/docchat/internal/loaders/pdf"
	"github.com/custodia-labs/docchat/internal/loaders/pptx"
	"github.com/custodia-labs/docchat/internal/loaders/xlsx"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry maps file types to loaders.
type Registry struct {
	loaders map[domain.FileType]driven.DocumentLoader
}

// NewRegistry creates a registry holding the given loaders.
// A later loader for the same file type replaces an earlier one.
func NewRegistry(loaders ...driven.DocumentLoader) *Registry {
	r := &Registry{loaders: make(map[domain.FileType]driven.DocumentLoader, len(loaders))}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Default returns a registry with a loader for every supported file type.
func Default() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		markdown.New(),
		pptx.New(),
		xlsx.New(),
		csv.New(),
	)
}

// Register adds a loader.
func (r *Registry) Register(l driven.DocumentLoader) {
	r.loaders[l.FileType()] = l
}

// Get returns the loader for a file type.
func (r *Registry) Get(ft domain.FileType) (driven.DocumentLoader, bool) {
	l, ok := r.loaders[ft]
	return l, ok
}

// LoadDir loads every fileType file below dir in lexical path order.
// The first failing file fails the whole call.
func (r *Registry) LoadDir(ctx context.Context, dir string, fileType domain.FileType) ([]domain.Document, error) {
	loader, ok := r.loaders[fileType]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrLoad, domain.ErrUnsupportedType, fileType)
	}

	paths, err := filesystem.Walk(ctx, dir, fileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLoad, dir, err)
	}
	logger.Debug("loading %d %s files from %s", len(paths), fileType, dir)

	var docs []domain.Document
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := loader.Load(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrLoad, path, err)
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}
