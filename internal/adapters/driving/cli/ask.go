package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	askSession string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about your documents",
	Long: `Answers one question using the indexed documents and records the turn
in a chat session. Without --session a new session is started; pass
--session to continue an existing conversation.`,
	Args:        cobra.ExactArgs(1),
	Annotations: aiCommand(),
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session to continue (default: new session)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON form of an answer.
type askOutput struct {
	SessionID   string   `json:"session_id"`
	Question    string   `json:"question"`
	SearchQuery string   `json:"search_query"`
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return fmt.Errorf("chat %w", errNoService)
	}

	sessionID, err := sessionOrNew(cmd, askSession)
	if err != nil {
		return err
	}

	answer, err := chatService.Ask(cmd.Context(), sessionID, args[0])
	if err != nil {
		return err
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	printAnswer(cmd.OutOrStdout(), newPalette(cmd.OutOrStdout()), answer)
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	out := askOutput{
		SessionID:   answer.SessionID,
		Question:    answer.Question,
		SearchQuery: answer.SearchQuery,
		Answer:      answer.Content,
		Sources:     make([]string, len(answer.Sources)),
	}
	for i, ref := range answer.Sources {
		out.Sources[i] = domain.SourceString(ref)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printAnswer(w io.Writer, p palette, answer *domain.Answer) {
	fmt.Fprintf(w, "%s %s\n", p.AI("AI:"), answer.Content)
	if len(answer.Sources) == 0 {
		return
	}
	fmt.Fprintln(w, p.Muted("Sources:"))
	for i, ref := range answer.Sources {
		fmt.Fprintln(w, p.Muted(fmt.Sprintf("  [%d] %s", i+1, domain.SourceString(ref))))
	}
}

// sessionOrNew returns id, or reserves a new session when id is empty.
func sessionOrNew(cmd *cobra.Command, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	if sessionService == nil {
		return "", fmt.Errorf("session %w", errNoService)
	}
	id, err := sessionService.NewSession(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}
