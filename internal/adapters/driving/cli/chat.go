package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// quitCommand ends the chat loop.
const quitCommand = "q"

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat about your documents",
	Long: `Starts an interactive question and answer loop. Follow-up questions can
refer to earlier turns; each answer lists the chunks it was grounded on.

Type 'q' to quit.`,
	Args:        cobra.NoArgs,
	Annotations: aiCommand(),
	RunE:        runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session to continue (default: new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return fmt.Errorf("chat %w", errNoService)
	}

	sessionID, err := sessionOrNew(cmd, chatSession)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newPalette(out)
	cmd.Println(p.Muted(fmt.Sprintf("Session %s. Type '%s' to quit.", sessionID, quitCommand)))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print(p.You("You: "))
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case quitCommand:
			return nil
		}

		answer, err := chatService.Ask(cmd.Context(), sessionID, question)
		if err != nil {
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			// A failed turn leaves the session unchanged; keep the loop going.
			cmd.Println(p.Error(fmt.Sprintf("Error: %v", err)))
			continue
		}
		printAnswer(out, p, answer)
		cmd.Println()
	}
}
