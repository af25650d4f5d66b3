// Package cli provides the docchat command-line interface.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// annotationAI marks commands that need the LLM and embedding services.
const annotationAI = "docchat/ai"

// Global flags.
var (
	dataHome string
	verbose  bool
)

// Services used by commands. Set by the Builder before a command runs,
// or directly by tests.
var (
	settingsService driving.SettingsService
	sessionService  driving.SessionService
	ingestService   driving.IngestService
	chatService     driving.ChatService
	summaryService  driving.SummaryService
	modelService    driving.ModelService
)

// Options carries global flag values to the Builder.
type Options struct {
	// DataHome is the application directory; empty means the default.
	DataHome string

	// NeedAI is true when the command talks to the LLM or embedding service.
	NeedAI bool
}

// Services holds the application services a command runs against.
// Services that need AI are nil when Options.NeedAI is false.
type Services struct {
	Settings driving.SettingsService
	Sessions driving.SessionService
	Ingest   driving.IngestService
	Chat     driving.ChatService
	Summary  driving.SummaryService
	Models   driving.ModelService

	// Close releases resources held by the services. May be nil.
	Close func()
}

// Builder constructs services once global flags are parsed.
type Builder func(ctx context.Context, opts Options) (*Services, error)

var (
	builder      Builder
	closeActive  func()
	errNoService = errors.New("service not configured")
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `docchat ingests a directory of PDF, Word, Markdown, PowerPoint, Excel
and CSV files into a local vector store, then answers questions about
them in persistent chat sessions, citing the chunks each answer used.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataHome, "data-home", "", "application directory (default ~/.docchat)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
}

// SetBuilder registers the function that constructs services.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command, writing command output to stdout.
func Execute(ctx context.Context) error {
	defer closeServices()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if builder == nil {
		return nil
	}

	svcs, err := builder(cmd.Context(), Options{DataHome: dataHome, NeedAI: needsAI(cmd)})
	if err != nil {
		return err
	}

	settingsService = svcs.Settings
	sessionService = svcs.Sessions
	ingestService = svcs.Ingest
	chatService = svcs.Chat
	summaryService = svcs.Summary
	modelService = svcs.Models
	closeActive = svcs.Close
	return nil
}

func closeServices() {
	if closeActive != nil {
		closeActive()
		closeActive = nil
	}
}

// needsAI reports whether cmd is annotated as needing AI. Annotations
// are not inherited, so subcommands such as "ingest history" stay local.
func needsAI(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationAI] == "true"
}

func aiCommand() map[string]string {
	return map[string]string{annotationAI: "true"}
}
