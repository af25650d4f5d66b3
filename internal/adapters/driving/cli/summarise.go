package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	summariseDir     string
	summariseSession string
)

var summariseCmd = &cobra.Command{
	Use:     "summarise",
	Aliases: []string{"summarize"},
	Short:   "Summarise all documents",
	Long: `Summarises every document under the data directory with a map-reduce
pass over its chunks and records the summary in a chat session.`,
	Args:        cobra.NoArgs,
	Annotations: aiCommand(),
	RunE:        runSummarise,
}

func init() {
	summariseCmd.Flags().StringVarP(&summariseDir, "dir", "d", "", "directory to summarise (default from settings)")
	summariseCmd.Flags().StringVarP(&summariseSession, "session", "s", "", "session to record the summary in (default: new session)")
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, _ []string) error {
	if summaryService == nil {
		return fmt.Errorf("summary %w", errNoService)
	}

	dir, err := resolveDataDir(summariseDir)
	if err != nil {
		return err
	}

	cmd.Printf("Summarising %s...\n", dir)
	summary, err := summaryService.Summarise(cmd.Context(), driving.SummaryOptions{
		Dir:       dir,
		SessionID: summariseSession,
	})
	if err != nil {
		return fmt.Errorf("summarisation failed: %w", err)
	}

	cmd.Println()
	cmd.Println(summary.Content)
	cmd.Println()
	cmd.Printf("Summarised %d chunks into session %s.\n", summary.Chunks, summary.SessionID)
	return nil
}
