package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions against the indexed documents while
// keeping per-session conversational context.
type ChatService interface {
	// Ask runs one turn: reform, retrieve, generate, attribute, persist.
	// On failure nothing is appended to the session.
	Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error)
}

// SessionService manages conversation sessions.
type SessionService interface {
	// NewSession reserves and returns a fresh session id.
	NewSession(ctx context.Context) (string, error)

	// Transcript returns the messages of one session.
	Transcript(ctx context.Context, sessionID string) ([]domain.Message, error)

	// All returns every session transcript, ordered by numeric session id.
	All(ctx context.Context) ([]SessionTranscript, error)
}

// SessionTranscript pairs a session id with its messages.
type SessionTranscript struct {
	SessionID string
	Messages  []domain.Message
}

// SummaryService summarises the whole document set.
type SummaryService interface {
	// Summarise map-reduces every loaded chunk into one summary and appends
	// it as an ai message to opts.SessionID (a new session when empty).
	Summarise(ctx context.Context, opts SummaryOptions) (*domain.Summary, error)
}

// SummaryOptions configures a summarisation run.
type SummaryOptions struct {
	Dir       string
	SessionID string
}

// ModelService reports which models the configured backend offers.
type ModelService interface {
	// LocalModels lists installed generation models, excluding the embedding model.
	LocalModels(ctx context.Context) ([]string, error)
}
