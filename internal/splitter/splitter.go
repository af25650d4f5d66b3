// Package splitter cuts document text into overlapping chunks.
//
// Text is split recursively: first on paragraph breaks, then on line
// breaks, then on spaces, and finally between characters, so chunks end
// on the most natural boundary that keeps them under the target size.
// Adjacent pieces are merged back up to the target size, carrying up to
// the overlap size of trailing text into the next chunk.
// Sizes are measured in characters (runes), not bytes or tokens.
package splitter

import (
	"iter"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1024

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 80

// DefaultSeparators are tried in order; "" splits between characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text into chunks of at most chunkSize characters.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the boundary separators, most preferred first.
func WithSeparators(separators ...string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of doc, carrying the document's source,
// page, file type and a copy of its metadata.
func (s *Splitter) Split(doc domain.Document) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		for text := range s.SplitText(doc.Content) {
			chunk := domain.Chunk{
				Source:   doc.Source,
				Page:     doc.Page,
				FileType: doc.FileType,
				Content:  text,
				Metadata: maps.Clone(doc.Metadata),
			}
			if !yield(chunk) {
				return
			}
		}
	}
}

// SplitText returns the chunks of text. Text no longer than the chunk
// size is returned whole; blank text yields nothing.
func (s *Splitter) SplitText(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if strings.TrimSpace(text) == "" {
			return
		}
		if utf8.RuneCountInString(text) <= s.chunkSize {
			yield(text)
			return
		}
		s.split(text, s.separators, yield)
	}
}

// split splits text on the first separator it contains and recurses into
// pieces that are still too large. It returns false once yield does.
func (s *Splitter) split(text string, separators []string, yield func(string) bool) bool {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var small []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			small = append(small, piece)
			continue
		}

		if len(small) > 0 {
			if !s.merge(small, yield) {
				return false
			}
			small = nil
		}

		if len(finer) == 0 {
			if !emit(piece, yield) {
				return false
			}
			continue
		}
		if !s.split(piece, finer, yield) {
			return false
		}
	}

	if len(small) > 0 {
		return s.merge(small, yield)
	}
	return true
}

// merge concatenates consecutive pieces into chunks of at most chunkSize
// characters. After each chunk, leading pieces are dropped until at most
// overlap characters remain, and those are carried into the next chunk.
func (s *Splitter) merge(pieces []string, yield func(string) bool) bool {
	var current []string
	total := 0

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n > s.chunkSize && len(current) > 0 {
			if !emit(strings.Join(current, ""), yield) {
				return false
			}
			for total > s.overlap || (total+n > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	return emit(strings.Join(current, ""), yield)
}

// emit yields trimmed text unless it is blank.
func emit(text string, yield func(string) bool) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	return yield(text)
}

// splitKeepingSeparator splits text on sep and re-attaches each separator
// to the start of the piece that follows it. Empty pieces are dropped.
// An empty sep splits into single characters.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, part := range parts[1:] {
		pieces = append(pieces, sep+part)
	}
	return pieces
}
