package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// contextSeparator joins retrieved chunk texts in the answer prompt.
const contextSeparator = "\n\n---\n\n"

// ChatService runs conversational retrieval turns.
//
// A turn is: reform, retrieve, generate, attribute, persist. A failure in any
// step before persist leaves the session untouched. Once generation has
// succeeded and ctx is still live, the turn is persisted even if ctx is
// cancelled while writing.
type ChatService struct {
	history  driven.HistoryStore
	store    driven.VectorStore
	llm      driven.LLMService
	prompts  driven.PromptStore
	reformer *QueryReformer
	topK     int
}

// NewChatService creates a new chat service.
// A topK below 1 uses domain.DefaultTopK.
func NewChatService(
	history driven.HistoryStore,
	store driven.VectorStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	topK int,
) *ChatService {
	if topK < 1 {
		topK = domain.DefaultTopK
	}
	return &ChatService{
		history:  history,
		store:    store,
		llm:      llm,
		prompts:  prompts,
		reformer: NewQueryReformer(llm, prompts),
		topK:     topK,
	}
}

// Ask answers question within the given session and records the turn.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*domain.Answer, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	prior, err := s.history.Messages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// 1. Reform
	query, err := s.reformer.Reform(ctx, prior, question)
	if err != nil {
		return nil, err
	}

	// 2. Retrieve
	results, err := s.store.Query(ctx, query, s.topK)
	if err != nil {
		return nil, storeErr(domain.ErrStoreRead, "retrieve", err)
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Chunk.ID
	}
	logger.Debug("Retrieved %v for %q", ids, query)

	// 3. Generate
	content, err := s.generate(ctx, prior, question, results)
	if err != nil {
		return nil, err
	}

	// 4. Attribute
	sources := domain.SourceRefs(ids)

	// 5. Persist
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	human := domain.HumanMessage(question)
	ai := domain.AIMessage(content, sources)
	if err := s.history.AppendTurn(context.WithoutCancel(ctx), sessionID, human, ai); err != nil {
		return nil, fmt.Errorf("save turn: %w", err)
	}

	return &domain.Answer{
		SessionID:   sessionID,
		Question:    question,
		SearchQuery: query,
		Content:     content,
		Sources:     sources,
		Context:     results,
	}, nil
}

// generate answers question from the retrieved chunks and the prior turns.
func (s *ChatService) generate(
	ctx context.Context,
	prior []domain.Message,
	question string,
	results []domain.ScoredChunk,
) (string, error) {
	template, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt: %w", domain.ErrGeneration, err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Chunk.Content
	}

	messages := []driven.ChatMessage{{
		Role:    driven.RoleSystem,
		Content: fmt.Sprintf(template, strings.Join(texts, contextSeparator)),
	}}
	messages = append(messages, toChatMessages(prior)...)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: question})

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty answer", domain.ErrGeneration)
	}
	logger.Debug("Generated %d characters with %s", len(answer), s.llm.ModelName())
	return answer, nil
}
