package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// echoLLM answers map prompts with "theme:<text>" and reduce prompts with "final".
func echoLLM() *mockLLM {
	return &mockLLM{reply: func(msgs []driven.ChatMessage) (string, error) {
		prompt := msgs[0].Content
		if text, ok := strings.CutPrefix(prompt, "MAP: "); ok {
			return "theme:" + text, nil
		}
		return "final", nil
	}}
}

func TestSummaryService_Summarise(t *testing.T) {
	history := newMockHistoryStore()
	llm := echoLLM()
	service := NewSummaryService(newTestLoaders(), lineSplitter{}, llm, newMockPromptStore(), history)

	summary, err := service.Summarise(context.Background(), driving.SummaryOptions{Dir: "data"})

	require.NoError(t, err)
	assert.Equal(t, "final", summary.Content)
	assert.Equal(t, 4, summary.Chunks)
	assert.Equal(t, "1", summary.SessionID)

	// Four map calls, one reduce call.
	require.Equal(t, 5, llm.callCount())
	reduce := llm.calls[4][0].Content
	assert.True(t, strings.HasPrefix(reduce, "REDUCE: theme:alpha one"))
	assert.Contains(t, reduce, "theme:beta one")

	msgs := history.sessions["1"]
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageAI, msgs[0].Type)
	assert.NotNil(t, msgs[0].Sources)
	assert.Empty(t, msgs[0].Sources)
}

func TestSummaryService_AppendsToGivenSession(t *testing.T) {
	history := newMockHistoryStore()
	_, _ = history.Append(context.Background(), "4", domain.HumanMessage("hello"))
	service := NewSummaryService(newTestLoaders(), lineSplitter{}, echoLLM(), newMockPromptStore(), history)

	summary, err := service.Summarise(context.Background(), driving.SummaryOptions{Dir: "data", SessionID: "4"})

	require.NoError(t, err)
	assert.Equal(t, "4", summary.SessionID)
	assert.Len(t, history.sessions["4"], 2)
}

func TestSummaryService_CollapsesLongSummaries(t *testing.T) {
	long := strings.Repeat("x", maxCollapseChars/2-10)
	loaders := &mockLoaderRegistry{docs: map[domain.FileType][]domain.Document{
		domain.FileTypeMD: {{Source: "big.md", Content: "one\ntwo\nthree"}},
	}}
	reduceCalls := 0
	llm := &mockLLM{reply: func(msgs []driven.ChatMessage) (string, error) {
		if strings.HasPrefix(msgs[0].Content, "MAP: ") {
			return long, nil
		}
		reduceCalls++
		return "short", nil
	}}
	service := NewSummaryService(loaders, lineSplitter{}, llm, newMockPromptStore(), newMockHistoryStore())

	summary, err := service.Summarise(context.Background(), driving.SummaryOptions{Dir: "data"})

	require.NoError(t, err)
	assert.Equal(t, "short", summary.Content)
	// Three long summaries form groups [2][1] when collapsed, then one final reduce.
	assert.Equal(t, 3, reduceCalls)
}

func TestSummaryService_NoDocuments(t *testing.T) {
	history := newMockHistoryStore()
	loaders := &mockLoaderRegistry{}
	service := NewSummaryService(loaders, lineSplitter{}, echoLLM(), newMockPromptStore(), history)

	_, err := service.Summarise(context.Background(), driving.SummaryOptions{Dir: "data"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, history.sessions)
}

func TestSummaryService_GenerationFailureAppendsNothing(t *testing.T) {
	history := newMockHistoryStore()
	service := NewSummaryService(newTestLoaders(), lineSplitter{}, &mockLLM{err: errBoom}, newMockPromptStore(), history)

	_, err := service.Summarise(context.Background(), driving.SummaryOptions{Dir: "data"})

	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Empty(t, history.sessions)
	assert.Equal(t, 0, history.reserved, "no session is reserved on failure")
}

func TestGroupByLength(t *testing.T) {
	parts := []string{"aaaa", "bbbb", "cccc", "dddddddddddd"}

	groups := groupByLength(parts, 10)

	assert.Equal(t, [][]string{{"aaaa", "bbbb"}, {"cccc"}, {"dddddddddddd"}}, groups)
	assert.Equal(t, 10, joinedLen([]string{"aaaa", "bbbb"}))
	assert.Equal(t, 0, joinedLen(nil))
}
