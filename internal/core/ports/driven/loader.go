package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentLoader extracts text from one file format.
type DocumentLoader interface {
	// FileType returns the extension this loader handles.
	FileType() domain.FileType

	// Load reads the file at path and returns its documents in file order
	// (one per page, slide, sheet or row where the format has them).
	Load(ctx context.Context, path string) ([]domain.Document, error)
}

// LoaderRegistry loads every document of a file type below a directory.
type LoaderRegistry interface {
	// LoadDir loads every file matching **/*{fileType} under dir in lexical
	// path order. Any failure fails the whole call with domain.ErrLoad.
	LoadDir(ctx context.Context, dir string, fileType domain.FileType) ([]domain.Document, error)
}

// Splitter cuts documents into overlapping chunks.
type Splitter interface {
	// Split returns the chunks of doc in text order. The sequence is lazy
	// and can be iterated more than once. Chunk IDs are left empty.
	Split(doc domain.Document) iter.Seq[domain.Chunk]
}

// ChangeWatcher reports changes to document files below a directory.
type ChangeWatcher interface {
	// Watch emits debounced batches of changed file paths until ctx is
	// cancelled, then closes the channel.
	Watch(ctx context.Context, dir string) (<-chan []string, error)
}
