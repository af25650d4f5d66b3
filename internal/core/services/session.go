package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages conversation sessions on top of the history store.
type SessionService struct {
	history driven.HistoryStore
}

// NewSessionService creates a new session service.
func NewSessionService(history driven.HistoryStore) *SessionService {
	return &SessionService{history: history}
}

// NewSession reserves and returns a fresh session id.
func (s *SessionService) NewSession(ctx context.Context) (string, error) {
	id, err := s.history.NextSessionID(ctx)
	if err != nil {
		return "", fmt.Errorf("next session id: %w", err)
	}
	return id, nil
}

// Transcript returns the messages of one session. Unknown sessions are empty.
func (s *SessionService) Transcript(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	messages, err := s.history.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return messages, nil
}

// All returns every session transcript, ordered by numeric session id.
func (s *SessionService) All(ctx context.Context) ([]driving.SessionTranscript, error) {
	sessions, err := s.history.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	out := make([]driving.SessionTranscript, 0, len(sessions))
	for id, messages := range sessions {
		out = append(out, driving.SessionTranscript{SessionID: id, Messages: messages})
	}
	slices.SortFunc(out, func(a, b driving.SessionTranscript) int {
		return compareSessionIDs(a.SessionID, b.SessionID)
	})
	return out, nil
}

// compareSessionIDs orders numeric ids numerically, before any non-numeric ones.
func compareSessionIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
