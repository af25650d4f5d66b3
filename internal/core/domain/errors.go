package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file type or provider capability.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The vector store cannot embed without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Pipeline Errors.

	// ErrLoad indicates a document loader failed for a file type.
	// The pass for that type is skipped; other types continue.
	ErrLoad = errors.New("load failed")

	// ErrStoreWrite indicates the vector or history store could not persist.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreRead indicates the vector or history store could not be read.
	ErrStoreRead = errors.New("store read failed")

	// ErrReformulation indicates the model failed to rewrite a follow-up question.
	ErrReformulation = errors.New("query reformulation failed")

	// ErrGeneration indicates the model failed to produce an answer.
	ErrGeneration = errors.New("answer generation failed")
)
