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

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// maxCollapseChars bounds the joined length of summaries handed to one
// reduce call (roughly 4096 tokens at 4 characters per token).
const maxCollapseChars = 4096 * 4

const summarySeparator = "\n\n"

// SummaryService map-reduces the document set into one summary.
type SummaryService struct {
	loaders  driven.LoaderRegistry
	splitter driven.Splitter
	llm      driven.LLMService
	prompts  driven.PromptStore
	history  driven.HistoryStore

	fileTypes []domain.FileType
}

// NewSummaryService creates a new summary service.
func NewSummaryService(
	loaders driven.LoaderRegistry,
	splitter driven.Splitter,
	llm driven.LLMService,
	prompts driven.PromptStore,
	history driven.HistoryStore,
) *SummaryService {
	return &SummaryService{
		loaders:   loaders,
		splitter:  splitter,
		llm:       llm,
		prompts:   prompts,
		history:   history,
		fileTypes: domain.SupportedFileTypes(),
	}
}

// Summarise summarises every chunk under opts.Dir and appends the result
// to the session as an ai message with no sources.
func (s *SummaryService) Summarise(ctx context.Context, opts driving.SummaryOptions) (*domain.Summary, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("%w: directory is required", domain.ErrInvalidInput)
	}

	chunks := s.loadChunks(ctx, opts.Dir)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no documents under %s", domain.ErrNotFound, opts.Dir)
	}

	logger.Section("Summarise")

	mapTemplate, err := s.prompts.Load(driven.PromptSummariseMap)
	if err != nil {
		return nil, fmt.Errorf("%w: load prompt: %w", domain.ErrGeneration, err)
	}
	reduceTemplate, err := s.prompts.Load(driven.PromptSummariseReduce)
	if err != nil {
		return nil, fmt.Errorf("%w: load prompt: %w", domain.ErrGeneration, err)
	}

	// Map
	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out, err := s.complete(ctx, mapTemplate, chunk.Content)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, out)
	}
	logger.Debug("Mapped %d chunks", len(summaries))

	// Collapse
	for joinedLen(summaries) > maxCollapseChars {
		groups := groupByLength(summaries, maxCollapseChars)
		if len(groups) == len(summaries) {
			// Every summary is already alone in its group.
			break
		}
		collapsed := make([]string, 0, len(groups))
		for _, group := range groups {
			out, err := s.complete(ctx, reduceTemplate, strings.Join(group, summarySeparator))
			if err != nil {
				return nil, err
			}
			collapsed = append(collapsed, out)
		}
		logger.Debug("Collapsed %d summaries into %d", len(summaries), len(collapsed))
		summaries = collapsed
	}

	// Reduce
	content, err := s.complete(ctx, reduceTemplate, strings.Join(summaries, summarySeparator))
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	persistCtx := context.WithoutCancel(ctx)

	sessionID := opts.SessionID
	if sessionID == "" {
		if sessionID, err = s.history.NextSessionID(persistCtx); err != nil {
			return nil, fmt.Errorf("next session id: %w", err)
		}
	}
	if _, err := s.history.Append(persistCtx, sessionID, domain.AIMessage(content, []*string{})); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}

	return &domain.Summary{SessionID: sessionID, Content: content, Chunks: len(chunks)}, nil
}

// loadChunks splits every loadable document. Types that fail to load are skipped.
func (s *SummaryService) loadChunks(ctx context.Context, dir string) []domain.Chunk {
	var chunks []domain.Chunk
	for _, ft := range s.fileTypes {
		docs, err := s.loaders.LoadDir(ctx, dir, ft)
		if err != nil {
			logger.Warn("Skipping %s documents: %v", ft, err)
			continue
		}
		for _, doc := range docs {
			for chunk := range s.splitter.Split(doc) {
				chunks = append(chunks, chunk)
			}
		}
	}
	return chunks
}

func (s *SummaryService) complete(ctx context.Context, template, text string) (string, error) {
	messages := []driven.ChatMessage{{Role: driven.RoleUser, Content: fmt.Sprintf(template, text)}}
	out, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	return strings.TrimSpace(out), nil
}

func joinedLen(parts []string) int {
	if len(parts) == 0 {
		return 0
	}
	total := len(summarySeparator) * (len(parts) - 1)
	for _, p := range parts {
		total += len(p)
	}
	return total
}

// groupByLength packs consecutive parts into groups whose joined length
// stays within limit. A part longer than limit forms its own group.
func groupByLength(parts []string, limit int) [][]string {
	var groups [][]string
	var current []string
	for _, p := range parts {
		if len(current) > 0 && joinedLen(append(current[:len(current):len(current)], p)) > limit {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
