package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	ingestDir          string
	ingestReset        bool
	ingestWatch        bool
	ingestHistoryLimit int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index documents from the data directory",
	Long: `Loads every supported file under the data directory, splits it into
chunks and adds chunks that are not yet indexed to the vector store.

Each file type (.pdf, .docx, .md, .pptx, .xlsx, .csv) is a separate pass.
A file that fails to load skips its pass; other passes still run.

Use --reset to clear the vector store first and --watch to keep
re-ingesting as files change.`,
	Args:        cobra.NoArgs,
	Annotations: aiCommand(),
	RunE:        runIngest,
}

var ingestHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ingestion runs",
	Args:  cobra.NoArgs,
	RunE:  runIngestHistory,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "directory to ingest (default from settings)")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear the vector store before ingesting")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest whenever files change")
	ingestHistoryCmd.Flags().IntVarP(&ingestHistoryLimit, "limit", "n", 10, "maximum number of runs to show")
	ingestCmd.AddCommand(ingestHistoryCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest %w", errNoService)
	}

	dir, err := resolveDataDir(ingestDir)
	if err != nil {
		return err
	}
	opts := domain.IngestOptions{Dir: dir, Reset: ingestReset}
	ctx := cmd.Context()

	if ingestWatch {
		cmd.Printf("Watching %s (Ctrl+C to stop)...\n", dir)
		err := ingestService.Watch(ctx, opts, func(report *domain.IngestReport, err error) {
			printIngestReport(cmd.OutOrStdout(), report)
			if err != nil {
				cmd.PrintErrf("Ingestion failed: %v\n", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	cmd.Printf("Ingesting %s...\n", dir)
	report, err := ingestService.Ingest(ctx, opts)
	printIngestReport(cmd.OutOrStdout(), report)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func printIngestReport(w io.Writer, report *domain.IngestReport) {
	if report == nil {
		return
	}
	if report.Reset {
		fmt.Fprintln(w, "Vector store cleared.")
	}
	for _, p := range report.Passes {
		if p.Skipped() {
			fmt.Fprintf(w, "  %-6s skipped: %v\n", p.FileType, p.Err)
			continue
		}
		fmt.Fprintf(w, "  %-6s %d documents, %d chunks, %d existing, %d added\n",
			p.FileType, p.Documents, p.Chunks, p.Existing, p.Added)
	}
	fmt.Fprintf(w, "Added %d chunks (%s).\n",
		report.Added(), report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

func runIngestHistory(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest %w", errNoService)
	}

	runs, err := ingestService.RecentRuns(cmd.Context(), ingestHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load ingestion history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded.")
		return nil
	}

	for _, run := range runs {
		added, failed := 0, 0
		for _, p := range run.Passes {
			added += p.Added
			if p.Error != "" {
				failed++
			}
		}
		cmd.Printf("%s  %s  %6s  added %d",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.ID,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			added)
		if failed > 0 {
			cmd.Printf("  (%d passes failed)", failed)
		}
		cmd.Println()
	}
	return nil
}

// resolveDataDir returns dir, or the configured data directory when empty.
func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if settingsService == nil {
		return domain.DefaultDataDir, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Ingest.DataDir == "" {
		return domain.DefaultDataDir, nil
	}
	return settings.Ingest.DataDir, nil
}
