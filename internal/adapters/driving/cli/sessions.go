package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
	Long:  `List, show and create chat sessions. Without a subcommand, lists all sessions.`,
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show the transcript of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session and print its id",
	Args:  cobra.NoArgs,
	RunE:  runSessionsNew,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return fmt.Errorf("session %w", errNoService)
	}

	sessions, err := sessionService.All(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions yet.")
		return nil
	}

	cmd.Println("Sessions:")
	for _, s := range sessions {
		first := ""
		for _, m := range s.Messages {
			if m.Type == domain.MessageHuman {
				first = truncate(m.Content, 60)
				break
			}
		}
		cmd.Printf("  %-6s %3d messages  %s\n", s.SessionID, len(s.Messages), first)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return fmt.Errorf("session %w", errNoService)
	}

	messages, err := sessionService.Transcript(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if len(messages) == 0 {
		cmd.Printf("Session %s has no messages.\n", args[0])
		return nil
	}

	printTranscript(cmd.OutOrStdout(), newPalette(cmd.OutOrStdout()), messages)
	return nil
}

func printTranscript(w io.Writer, p palette, messages []domain.Message) {
	for _, m := range messages {
		if m.Type == domain.MessageHuman {
			fmt.Fprintf(w, "%s %s\n", p.You("You:"), m.Content)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", p.AI("AI:"), m.Content)
		for i, ref := range m.Sources {
			fmt.Fprintln(w, p.Muted(fmt.Sprintf("  [%d] %s", i+1, domain.SourceString(ref))))
		}
	}
}

func runSessionsNew(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return fmt.Errorf("session %w", errNoService)
	}

	id, err := sessionService.NewSession(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	cmd.Println(id)
	return nil
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
