package services

import (
	"context"
	"errors"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockVectorStore implements driven.VectorStore in memory.
// Query ranks chunks by how many query words their content contains.
type mockVectorStore struct {
	mu       sync.Mutex
	chunks   map[string]domain.Chunk
	order    []string
	upserted [][]domain.Chunk

	listErr   error
	upsertErr error
	queryErr  error
	resetErr  error
	queries   []string
}

func newMockVectorStore(chunks ...domain.Chunk) *mockVectorStore {
	m := &mockVectorStore{chunks: make(map[string]domain.Chunk)}
	for _, c := range chunks {
		m.chunks[c.ID] = c
		m.order = append(m.order, c.ID)
	}
	return m
}

func (m *mockVectorStore) Upsert(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, slices.Clone(chunks))
	for _, c := range chunks {
		if _, ok := m.chunks[c.ID]; !ok {
			m.order = append(m.order, c.ID)
		}
		m.chunks[c.ID] = c
	}
	return nil
}

func (m *mockVectorStore) ListIDs(_ context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make(map[string]struct{}, len(m.chunks))
	for id := range m.chunks {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *mockVectorStore) Query(_ context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, text)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	words := strings.Fields(strings.ToLower(text))
	var results []domain.ScoredChunk
	for _, id := range m.order {
		c := m.chunks[id]
		score := 0.0
		for _, w := range words {
			if strings.Contains(strings.ToLower(c.Content), w) {
				score++
			}
		}
		results = append(results, domain.ScoredChunk{Chunk: c, Score: score})
	}
	slices.SortStableFunc(results, func(a, b domain.ScoredChunk) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *mockVectorStore) ListDistinctSources(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	set := make(map[string]struct{})
	for id := range m.chunks {
		set[domain.SourceOfChunkID(id)] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

func (m *mockVectorStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetErr != nil {
		return m.resetErr
	}
	m.chunks = make(map[string]domain.Chunk)
	m.order = nil
	return nil
}

func (m *mockVectorStore) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.chunks))
}

// mockHistoryStore implements driven.HistoryStore in memory.
type mockHistoryStore struct {
	mu       sync.Mutex
	sessions map[string][]domain.Message
	reserved int

	messagesErr error
	appendErr   error
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{sessions: make(map[string][]domain.Message)}
}

func (m *mockHistoryStore) NextSessionID(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	highest := m.reserved
	for id := range m.sessions {
		if n, err := strconv.Atoi(id); err == nil && n > highest {
			highest = n
		}
	}
	m.reserved = highest + 1
	return strconv.Itoa(m.reserved), nil
}

func (m *mockHistoryStore) Append(_ context.Context, sessionID string, msg domain.Message) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.sessions[sessionID] = append(m.sessions[sessionID], msg)
	return int64(len(m.sessions[sessionID])), nil
}

func (m *mockHistoryStore) AppendTurn(_ context.Context, sessionID string, human, ai domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.sessions[sessionID] = append(m.sessions[sessionID], human, ai)
	return nil
}

func (m *mockHistoryStore) AttachSources(_ context.Context, sessionID string, sources []*string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.sessions[sessionID]
	if len(msgs) == 0 || msgs[len(msgs)-1].Type != domain.MessageAI {
		return nil
	}
	msgs[len(msgs)-1].Sources = sources
	return nil
}

func (m *mockHistoryStore) Messages(_ context.Context, sessionID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messagesErr != nil {
		return nil, m.messagesErr
	}
	return slices.Clone(m.sessions[sessionID]), nil
}

func (m *mockHistoryStore) LoadAll(_ context.Context) (map[string][]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messagesErr != nil {
		return nil, m.messagesErr
	}
	out := make(map[string][]domain.Message, len(m.sessions))
	for id, msgs := range m.sessions {
		out[id] = slices.Clone(msgs)
	}
	return out, nil
}

// mockLLM implements driven.LLMService. Replies are returned in order;
// once exhausted, the last reply repeats.
type mockLLM struct {
	mu      sync.Mutex
	replies []string
	reply   func(messages []driven.ChatMessage) (string, error)
	err     error
	calls   [][]driven.ChatMessage
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, slices.Clone(messages))
	if m.err != nil {
		return "", m.err
	}
	if m.reply != nil {
		return m.reply(messages)
	}
	if len(m.replies) == 0 {
		return "", nil
	}
	i := min(len(m.calls)-1, len(m.replies)-1)
	return m.replies[i], nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockListingLLM adds driven.ModelLister to mockLLM.
type mockListingLLM struct {
	mockLLM
	models  []string
	listErr error
}

func (m *mockListingLLM) ListModels(_ context.Context) ([]string, error) {
	return m.models, m.listErr
}

// mockPromptStore implements driven.PromptStore with fixed templates.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptQueryReform:     "REFORM",
		driven.PromptAnswerSystem:    "CONTEXT: %s",
		driven.PromptSummariseMap:    "MAP: %s",
		driven.PromptSummariseReduce: "REDUCE: %s",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockLoaderRegistry returns fixed documents per file type.
type mockLoaderRegistry struct {
	docs map[domain.FileType][]domain.Document
	errs map[domain.FileType]error
}

func (m *mockLoaderRegistry) LoadDir(_ context.Context, _ string, ft domain.FileType) ([]domain.Document, error) {
	if err := m.errs[ft]; err != nil {
		return nil, err
	}
	return m.docs[ft], nil
}

// lineSplitter emits one chunk per non-empty line.
type lineSplitter struct{}

func (lineSplitter) Split(doc domain.Document) iter.Seq[domain.Chunk] {
	return func(yield func(domain.Chunk) bool) {
		for _, line := range strings.Split(doc.Content, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			chunk := domain.Chunk{Source: doc.Source, Page: doc.Page, FileType: doc.FileType, Content: line}
			if !yield(chunk) {
				return
			}
		}
	}
}

// mockRunStore implements driven.IngestRunStore in memory.
type mockRunStore struct {
	mu   sync.Mutex
	runs []domain.IngestRun
	err  error
}

func (m *mockRunStore) Record(_ context.Context, run domain.IngestRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) Recent(_ context.Context, limit int) ([]domain.IngestRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.runs)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockWatcher implements driven.ChangeWatcher over a test-controlled channel.
type mockWatcher struct {
	changes chan []string
	err     error
}

func (m *mockWatcher) Watch(_ context.Context, _ string) (<-chan []string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.changes, nil
}

var errBoom = errors.New("boom")

// Ensure mocks implement interfaces
var (
	_ driven.VectorStore    = (*mockVectorStore)(nil)
	_ driven.HistoryStore   = (*mockHistoryStore)(nil)
	_ driven.LLMService     = (*mockLLM)(nil)
	_ driven.ModelLister    = (*mockListingLLM)(nil)
	_ driven.PromptStore    = (*mockPromptStore)(nil)
	_ driven.LoaderRegistry = (*mockLoaderRegistry)(nil)
	_ driven.Splitter       = lineSplitter{}
	_ driven.IngestRunStore = (*mockRunStore)(nil)
	_ driven.ChangeWatcher  = (*mockWatcher)(nil)
)
