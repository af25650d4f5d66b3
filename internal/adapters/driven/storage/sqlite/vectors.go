package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// vectorStore implements driven.VectorStore over the vectors table.
// Query is a brute-force cosine scan over every stored embedding.
type vectorStore struct {
	store    *Store
	embedder driven.EmbeddingService
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Upsert embeds chunks and writes them in one transaction.
func (s *vectorStore) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if s.embedder == nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWrite, domain.ErrEmbeddingUnavailable)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embed: %w", domain.ErrStoreWrite, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrStoreWrite, len(embeddings), len(chunks))
	}

	if err := s.write(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
	}
	return nil
}

func (s *vectorStore) write(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, source, page, file_type, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			page = excluded.page,
			file_type = excluded.file_type,
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for i, c := range chunks {
		metadata, err := marshalMetadata(c.Metadata)
		if err != nil {
			return fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Source, c.Page, string(c.FileType), c.Content,
			float32SliceToBytes(embeddings[i]), metadata, now,
		); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// ListIDs returns every stored ChunkID.
func (s *vectorStore) ListIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	err := s.eachID(ctx, func(id string) {
		ids[id] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListDistinctSources returns the sorted source paths derived from stored ChunkIDs.
func (s *vectorStore) ListDistinctSources(ctx context.Context) ([]string, error) {
	sources := make(map[string]struct{})
	err := s.eachID(ctx, func(id string) {
		sources[domain.SourceOfChunkID(id)] = struct{}{}
	})
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(sources)), nil
}

func (s *vectorStore) eachID(ctx context.Context, fn func(id string)) error {
	rows, err := s.store.db.QueryContext(ctx, "SELECT id FROM vectors")
	if err != nil {
		return fmt.Errorf("%w: querying ids: %w", domain.ErrStoreRead, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: scanning id: %w", domain.ErrStoreRead, err)
		}
		fn(id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating ids: %w", domain.ErrStoreRead, err)
	}
	return nil
}

// Query embeds text and returns at most k chunks by descending cosine similarity.
func (s *vectorStore) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreRead, domain.ErrEmbeddingUnavailable)
	}
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrStoreRead, err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, page, file_type, content, embedding, metadata
		FROM vectors ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying vectors: %w", domain.ErrStoreRead, err)
	}
	defer rows.Close()

	var results []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			c        domain.Chunk
			fileType string
			blob     []byte
			metadata string
		)
		if err := rows.Scan(&c.ID, &c.Source, &c.Page, &fileType, &c.Content, &blob, &metadata); err != nil {
			return nil, fmt.Errorf("%w: scanning vector: %w", domain.ErrStoreRead, err)
		}
		c.FileType = domain.FileType(fileType)
		if c.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("%w: chunk %s: %w", domain.ErrStoreRead, c.ID, err)
		}
		results = append(results, domain.ScoredChunk{
			Chunk: c,
			Score: similarity.Cosine(query, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating vectors: %w", domain.ErrStoreRead, err)
	}

	return similarity.TopK(results, k), nil
}

// Reset deletes every stored chunk.
func (s *vectorStore) Reset(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		return fmt.Errorf("%w: clearing vectors: %w", domain.ErrStoreWrite, err)
	}
	return nil
}

func marshalMetadata(m map[string]any) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(data), nil
}

func unmarshalMetadata(s string) (map[string]any, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return m, nil
}
