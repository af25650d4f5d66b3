package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the documents in the vector store",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return fmt.Errorf("ingest %w", errNoService)
	}

	sources, err := ingestService.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}
	if len(sources) == 0 {
		cmd.Println("No documents indexed. Run 'docchat ingest' first.")
		return nil
	}

	cmd.Println("Documents used:")
	for _, s := range sources {
		cmd.Printf("  %s\n", s)
	}
	return nil
}
