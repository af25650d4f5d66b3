package memory

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
	reserved map[int]struct{}
	lastRow  int64
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		sessions: make(map[string][]domain.Message),
		reserved: make(map[int]struct{}),
	}
}

// NextSessionID reserves and returns max(session ids)+1.
func (s *HistoryStore) NextSessionID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	highest := 0
	for id := range s.sessions {
		if n, err := strconv.Atoi(id); err == nil && n > highest {
			highest = n
		}
	}
	for n := range s.reserved {
		highest = max(highest, n)
	}

	next := highest + 1
	s.reserved[next] = struct{}{}
	return strconv.Itoa(next), nil
}

// Append adds a message to a session.
func (s *HistoryStore) Append(_ context.Context, sessionID string, msg domain.Message) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], cloneMessage(msg))
	s.lastRow++
	return s.lastRow, nil
}

// AppendTurn adds a human message and its answer together.
func (s *HistoryStore) AppendTurn(_ context.Context, sessionID string, human, ai domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], cloneMessage(human), cloneMessage(ai))
	s.lastRow += 2
	return nil
}

// AttachSources sets the sources of the last message when it is an ai message.
func (s *HistoryStore) AttachSources(_ context.Context, sessionID string, sources []*string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	if len(msgs) == 0 || msgs[len(msgs)-1].Type != domain.MessageAI {
		return nil
	}
	msgs[len(msgs)-1].Sources = cloneSources(sources)
	return nil
}

// Messages returns a session transcript in insertion order.
func (s *HistoryStore) Messages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return renderMessages(s.sessions[sessionID]), nil
}

// LoadAll returns every session transcript.
func (s *HistoryStore) LoadAll(_ context.Context) (map[string][]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]domain.Message, len(s.sessions))
	for id, msgs := range s.sessions {
		out[id] = renderMessages(msgs)
	}
	return out, nil
}

func renderMessages(msgs []domain.Message) []domain.Message {
	out := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		out[i] = cloneMessage(m)
		if m.Type == domain.MessageAI && out[i].Sources == nil {
			out[i].Sources = []*string{}
		}
	}
	return out
}

func cloneMessage(m domain.Message) domain.Message {
	m.Sources = cloneSources(m.Sources)
	return m
}

func cloneSources(sources []*string) []*string {
	if sources == nil {
		return nil
	}
	out := make([]*string, len(sources))
	for i, src := range sources {
		if src != nil {
			v := *src
			out[i] = &v
		}
	}
	return slices.Clip(out)
}
