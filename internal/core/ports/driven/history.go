package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// HistoryStore is the durable, append-only per-session message log.
// Messages within a session are totally ordered by insertion.
// Implementations must serialise writes and allow concurrent reads.
type HistoryStore interface {
	// NextSessionID returns max(existing session ids)+1, or "1" when there
	// are none. The returned id is reserved so concurrent callers never
	// receive the same value.
	NextSessionID(ctx context.Context) (string, error)

	// Append adds a message to the session and returns its row id.
	Append(ctx context.Context, sessionID string, msg domain.Message) (int64, error)

	// AppendTurn stores a human message and its ai answer atomically.
	AppendTurn(ctx context.Context, sessionID string, human, ai domain.Message) error

	// AttachSources sets the sources of the session's most recent message
	// when it is an ai message. Otherwise, or for an empty session, it is a no-op.
	AttachSources(ctx context.Context, sessionID string, sources []*string) error

	// Messages returns the session transcript in insertion order.
	Messages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// LoadAll returns every session transcript keyed by session id.
	// ai messages without stored sources get an empty, non-nil slice.
	LoadAll(ctx context.Context) (map[string][]domain.Message, error)
}
