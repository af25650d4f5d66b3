package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure ModelService implements the interface.
var _ driving.ModelService = (*ModelService)(nil)

// ModelService lists the generation models offered by the LLM backend.
type ModelService struct {
	llm            driven.LLMService
	embeddingModel string
}

// NewModelService creates a model service. embeddingModel is excluded from listings.
func NewModelService(llm driven.LLMService, embeddingModel string) *ModelService {
	return &ModelService{llm: llm, embeddingModel: embeddingModel}
}

// LocalModels returns the sorted installed models, excluding the embedding model.
func (s *ModelService) LocalModels(ctx context.Context) ([]string, error) {
	lister, ok := s.llm.(driven.ModelLister)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend cannot list models", domain.ErrUnsupportedType, s.llm.ModelName())
	}

	names, err := lister.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list models: %w", domain.ErrLLMUnavailable, err)
	}

	models := make([]string, 0, len(names))
	for _, name := range names {
		if s.isEmbeddingModel(name) {
			continue
		}
		models = append(models, name)
	}
	slices.Sort(models)
	return models, nil
}

func (s *ModelService) isEmbeddingModel(name string) bool {
	if s.embeddingModel == "" {
		return false
	}
	base := strings.TrimSuffix(s.embeddingModel, ":latest")
	return strings.TrimSuffix(name, ":latest") == base
}
