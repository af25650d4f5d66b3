package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer      *domain.Answer
	err         error
	gotSession  string
	gotQuestion string
}

func (m *mockChatService) Ask(_ context.Context, sessionID, question string) (*domain.Answer, error) {
	m.gotSession = sessionID
	m.gotQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	answer := *m.answer
	answer.SessionID = sessionID
	answer.Question = question
	return &answer, nil
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	nextID      string
	transcripts []driving.SessionTranscript
	err         error
	created     int
}

func (m *mockSessionService) NewSession(_ context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.created++
	return m.nextID, nil
}

func (m *mockSessionService) Transcript(_ context.Context, sessionID string) ([]domain.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.transcripts {
		if t.SessionID == sessionID {
			return t.Messages, nil
		}
	}
	return []domain.Message{}, nil
}

func (m *mockSessionService) All(_ context.Context) ([]driving.SessionTranscript, error) {
	return m.transcripts, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	sources []string
	err     error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.IngestOptions) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, m.err
}

func (m *mockIngestService) Watch(
	_ context.Context,
	_ domain.IngestOptions,
	_ func(*domain.IngestReport, error),
) error {
	return m.err
}

func (m *mockIngestService) Sources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockIngestService) RecentRuns(_ context.Context, _ int) ([]domain.IngestRun, error) {
	return nil, m.err
}

func ptr(s string) *string { return &s }

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
