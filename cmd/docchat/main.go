// Command docchat chats with a local directory of documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/connectors/filesystem"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/loaders"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/splitter"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A missing .env is normal; API keys may come from the real environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBuilder(buildServices)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// buildServices wires adapters into the core services.
func buildServices(_ context.Context, opts cli.Options) (*cli.Services, error) {
	home, err := resolveHome(opts.DataHome)
	if err != nil {
		return nil, err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	store, err := sqlite.NewStore(home)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("Store: %s", store.Path())

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	history := store.HistoryStore()
	svcs := &cli.Services{
		Settings: settingsService,
		Sessions: services.NewSessionService(history),
	}

	var (
		aiServices *ai.InitResult
		embedder   driven.EmbeddingService
	)
	if opts.NeedAI {
		aiServices, err = ai.Init(settings)
		if err != nil {
			store.Close()
			return nil, err
		}
		embedder = aiServices.EmbeddingService
	}

	vectors := store.VectorStore(embedder)
	registry := loaders.Default()
	split := splitter.New(
		splitter.WithChunkSize(settings.Ingest.ChunkSize),
		splitter.WithOverlap(settings.Ingest.ChunkOverlap),
	)

	ingest := services.NewIngestService(registry, split, vectors, store.IngestRunStore())
	ingest.SetWatcher(filesystem.NewWatcher())
	svcs.Ingest = ingest

	if aiServices != nil {
		llm := aiServices.LLMService
		svcs.Chat = services.NewChatService(history, vectors, llm, prompts, settings.Retrieval.TopK)
		svcs.Summary = services.NewSummaryService(registry, split, llm, prompts, history)
		svcs.Models = services.NewModelService(llm, settings.Embedding.Model)
	}

	svcs.Close = func() {
		if aiServices != nil {
			aiServices.Close()
		}
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
	}
	return svcs, nil
}

// resolveHome returns dir, or ~/.docchat when empty.
func resolveHome(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}
