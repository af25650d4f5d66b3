package domain

// Document is the raw text of one loaded file (or one page, slide, sheet
// or row of it) together with where it came from.
// Documents are produced by loaders and are never mutated afterwards.
type Document struct {
	// Source is the path the document was loaded from.
	Source string

	// Page is the 0-based page within Source.
	// Formats without pages use 0.
	Page int

	// FileType is the extension the document was loaded as.
	FileType FileType

	// Content is the extracted text.
	Content string

	// Metadata contains loader-specific key-value pairs
	// (front matter, sheet name, csv row, ...).
	Metadata map[string]any
}

// Chunk is a contiguous piece of a Document's text.
type Chunk struct {
	// ID is assigned by the chunk identity pass; empty until then.
	ID string

	// Source is the path of the parent Document.
	Source string

	// Page is the page of the parent Document.
	Page int

	// FileType is the type of the parent Document.
	FileType FileType

	// Content is the chunk text.
	Content string

	// Metadata is copied from the parent Document.
	Metadata map[string]any
}

// ScoredChunk is a retrieved chunk with its similarity to the query.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity in [-1, 1]; higher is closer.
	Score float64
}
