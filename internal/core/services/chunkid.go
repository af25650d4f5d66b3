package services

import (
	"iter"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AssignChunkIDs sets each chunk's ID to "{source}:{page}:{index}", where
// index counts consecutive chunks sharing the same (source, page) and
// resets to 0 whenever that pair changes, even if it recurs later.
//
// IDs depend only on input order, so the sequence must be fed in the
// order the loader emitted it. Each iteration starts from fresh state.
func AssignChunkIDs(chunks iter.Seq[domain.Chunk]) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		lastPageKey := ""
		index := 0
		first := true

		for chunk := range chunks {
			pageKey := domain.PageKey(chunk.Source, chunk.Page)
			if !first && pageKey == lastPageKey {
				index++
			} else {
				index = 0
			}
			first = false
			lastPageKey = pageKey

			chunk.ID = domain.FormatChunkID(chunk.Source, chunk.Page, index)
			if !yield(chunk) {
				return
			}
		}
	}
}
