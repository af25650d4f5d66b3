package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestAskCmd_NewSession(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.sources = []*string{ptr("data/guide.pdf#0"), nil}

	out, err := execute(t, "", "ask", "What colour is the sky?")

	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ts.chat.sessions)
	assert.Equal(t, []string{"What colour is the sky?"}, ts.chat.asked)
	assert.Contains(t, out, "AI: It is blue.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "  [1] data/guide.pdf#0")
	assert.Contains(t, out, "  [2] <none>")
}

func TestAskCmd_ExistingSession(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ask", "--session", "7", "And at night?")

	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, ts.chat.sessions)
	assert.Zero(t, ts.sessions.next, "no session should be reserved")
}

func TestAskCmd_NoSources(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "hi")

	require.NoError(t, err)
	assert.NotContains(t, out, "Sources:")
}

func TestAskCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.sources = []*string{ptr("notes.md#2")}

	out, err := execute(t, "", "ask", "--json", "why?")
	require.NoError(t, err)

	var got askOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, askOutput{
		SessionID:   "1",
		Question:    "why?",
		SearchQuery: "standalone why?",
		Answer:      "It is blue.",
		Sources:     []string{"notes.md#2"},
	}, got)
}

func TestAskCmd_ChatError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.fail = map[string]error{"boom": domain.ErrGeneration}

	_, err := execute(t, "", "ask", "boom")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestAskCmd_SessionError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.sessions.err = errors.New("db locked")

	_, err := execute(t, "", "ask", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start session")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ask")
	assert.Error(t, err)
}

func TestAskCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	_, err := execute(t, "", "ask", "hi")
	assert.ErrorIs(t, err, errNoService)
}

func ptr(s string) *string { return &s }
