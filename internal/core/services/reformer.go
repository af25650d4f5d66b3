package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// QueryReformer rewrites a follow-up question into a standalone search query
// using the prior turns of its session.
type QueryReformer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewQueryReformer creates a reformer backed by the given model.
func NewQueryReformer(llm driven.LLMService, prompts driven.PromptStore) *QueryReformer {
	return &QueryReformer{llm: llm, prompts: prompts}
}

// Reform returns the search query for question. Without history the
// question is returned verbatim and the model is not called.
func (r *QueryReformer) Reform(ctx context.Context, history []domain.Message, question string) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	instruction, err := r.prompts.Load(driven.PromptQueryReform)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt: %w", domain.ErrReformulation, err)
	}

	messages := toChatMessages(history)
	messages = append(messages,
		driven.ChatMessage{Role: driven.RoleUser, Content: question},
		driven.ChatMessage{Role: driven.RoleUser, Content: instruction},
	)

	query, err := r.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrReformulation, err)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: model returned an empty query", domain.ErrReformulation)
	}

	logger.Debug("Reformed %q -> %q", question, query)
	return query, nil
}

// toChatMessages maps a transcript onto chat roles.
func toChatMessages(history []domain.Message) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	for _, m := range history {
		role := driven.RoleUser
		if m.Type == domain.MessageAI {
			role = driven.RoleAssistant
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: m.Content})
	}
	return messages
}
