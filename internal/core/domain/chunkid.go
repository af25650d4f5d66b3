package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PageKey returns the "{source}:{page}" prefix shared by every chunk
// cut from the same page.
func PageKey(source string, page int) string {
	return source + ":" + strconv.Itoa(page)
}

// FormatChunkID builds a ChunkID of the form "{source}:{page}:{index}".
func FormatChunkID(source string, page, index int) string {
	return PageKey(source, page) + ":" + strconv.Itoa(index)
}

// ParseChunkID splits a ChunkID into its source, page and index fields.
// The source is everything before the first colon.
func ParseChunkID(id string) (source string, page, index int, err error) {
	source, rest, ok := strings.Cut(id, ":")
	if !ok || source == "" {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q", ErrInvalidInput, id)
	}
	pageStr, indexStr, ok := strings.Cut(rest, ":")
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q", ErrInvalidInput, id)
	}
	if page, err = strconv.Atoi(pageStr); err != nil {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q: page: %w", ErrInvalidInput, id, err)
	}
	if index, err = strconv.Atoi(indexStr); err != nil {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q: index: %w", ErrInvalidInput, id, err)
	}
	return source, page, index, nil
}

// SourceOfChunkID returns the source path of a ChunkID by splitting on
// its first colon. IDs without a colon are returned whole.
func SourceOfChunkID(id string) string {
	source, _, _ := strings.Cut(id, ":")
	return source
}
