package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:         "models",
	Short:       "List locally installed generation models",
	Long:        `Lists the models the configured LLM backend offers, excluding the embedding model.`,
	Args:        cobra.NoArgs,
	Annotations: aiCommand(),
	RunE:        runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if modelService == nil {
		return fmt.Errorf("model %w", errNoService)
	}

	models, err := modelService.LocalModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	if len(models) == 0 {
		cmd.Println("No models installed.")
		return nil
	}

	for _, m := range models {
		cmd.Println(m)
	}
	return nil
}
