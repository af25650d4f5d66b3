package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// mockChatService answers every question with a fixed reply.
// Questions listed in fail return an error instead.
type mockChatService struct {
	reply    string
	sources  []*string
	fail     map[string]error
	sessions []string
	asked    []string
}

func (m *mockChatService) Ask(_ context.Context, sessionID, question string) (*domain.Answer, error) {
	if err, ok := m.fail[question]; ok {
		return nil, err
	}
	m.sessions = append(m.sessions, sessionID)
	m.asked = append(m.asked, question)
	return &domain.Answer{
		SessionID:   sessionID,
		Question:    question,
		SearchQuery: "standalone " + question,
		Content:     m.reply,
		Sources:     m.sources,
	}, nil
}

// mockSessionService hands out increasing session ids.
type mockSessionService struct {
	next        int
	transcripts []driving.SessionTranscript
	err         error
}

func (m *mockSessionService) NewSession(_ context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.next++
	return strconv.Itoa(m.next), nil
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
	return nil, nil
}

func (m *mockSessionService) All(_ context.Context) ([]driving.SessionTranscript, error) {
	return m.transcripts, m.err
}

type mockIngestService struct {
	report  *domain.IngestReport
	err     error
	sources []string
	runs    []domain.IngestRun
	opts    []domain.IngestOptions
	limit   int
	reports int
}

func (m *mockIngestService) Ingest(_ context.Context, opts domain.IngestOptions) (*domain.IngestReport, error) {
	m.opts = append(m.opts, opts)
	return m.report, m.err
}

// Watch reports twice, then behaves as if cancelled.
func (m *mockIngestService) Watch(
	_ context.Context,
	opts domain.IngestOptions,
	onReport func(*domain.IngestReport, error),
) error {
	m.opts = append(m.opts, opts)
	onReport(m.report, nil)
	onReport(m.report, m.err)
	m.reports += 2
	return context.Canceled
}

func (m *mockIngestService) Sources(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockIngestService) RecentRuns(_ context.Context, limit int) ([]domain.IngestRun, error) {
	m.limit = limit
	return m.runs, m.err
}

type mockSummaryService struct {
	summary *domain.Summary
	err     error
	opts    driving.SummaryOptions
}

func (m *mockSummaryService) Summarise(_ context.Context, opts driving.SummaryOptions) (*domain.Summary, error) {
	m.opts = opts
	return m.summary, m.err
}

type mockModelService struct {
	models []string
	err    error
}

func (m *mockModelService) LocalModels(_ context.Context) ([]string, error) {
	return m.models, m.err
}

// mockSettingsService keeps settings in memory.
type mockSettingsService struct {
	settings    domain.AppSettings
	getErr      error
	validateErr error
	setProvider domain.AIProvider
	setModel    string
	setKey      string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.setProvider, m.setModel, m.setKey = provider, model, apiKey
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if provider.RequiresAPIKey() && apiKey == "" {
		return errors.New("API key required")
	}
	m.setProvider, m.setModel, m.setKey = provider, model, apiKey
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }
func (m *mockSettingsService) ValidateLLMConfig() error       { return m.validateErr }

// testServices bundles the mocks installed by setupTestServices.
type testServices struct {
	chat     *mockChatService
	sessions *mockSessionService
	ingest   *mockIngestService
	summary  *mockSummaryService
	models   *mockModelService
	settings *mockSettingsService
}

// setupTestServices installs mock services and returns a restore func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		chat:     &mockChatService{reply: "It is blue."},
		sessions: &mockSessionService{},
		ingest:   &mockIngestService{report: &domain.IngestReport{}},
		summary:  &mockSummaryService{},
		models:   &mockModelService{},
		settings: newMockSettingsService(),
	}

	oldChat, oldSessions, oldIngest := chatService, sessionService, ingestService
	oldSummary, oldModels, oldSettings := summaryService, modelService, settingsService

	chatService = ts.chat
	sessionService = ts.sessions
	ingestService = ts.ingest
	summaryService = ts.summary
	modelService = ts.models
	settingsService = ts.settings

	return ts, func() {
		chatService, sessionService, ingestService = oldChat, oldSessions, oldIngest
		summaryService, modelService, settingsService = oldSummary, oldModels, oldSettings
	}
}
