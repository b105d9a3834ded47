package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

var (
	chatSession string
	chatPlain   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the directory assistant",
	Long: `Ask for AI platform recommendations.

With a message argument, sends one message and prints the reply.
Without one, starts an interactive session: a full-screen UI when
attached to a terminal, or a line-by-line conversation otherwise.

Line mode commands:
  /clear - forget the conversation
  /quit  - leave`,
	Annotations: needs(needsServices),
	RunE:        runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "continue an existing session")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use line mode even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if len(args) > 0 {
		reply, err := sendChat(cmd, chatSession, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printReply(cmd.OutOrStdout(), reply)
		fmt.Fprintf(cmd.OutOrStdout(), "\nsession: %s\n", reply.SessionID)
		return nil
	}

	if !chatPlain && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return runChatTUI(cmd)
	}
	return runChatLines(cmd)
}

func runChatTUI(cmd *cobra.Command) error {
	app, err := tui.NewApp(&tui.Ports{Chat: chatService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).WithSession(chatSession)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runChatLines(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	session := chatSession
	scanner := bufio.NewScanner(cmd.InOrStdin())

	strategy := chatService.Strategy()
	fmt.Fprintf(out, "aidir chat (%s). /clear resets, /quit exits.\n", strategyLabel(strategy))

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			if session != "" {
				if err := chatService.Clear(cmd.Context(), session); err != nil {
					return fmt.Errorf("failed to clear session: %w", err)
				}
			}
			session = ""
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		reply, err := sendChat(cmd, session, line)
		if errors.Is(err, domain.ErrInvalidInput) {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		session = reply.SessionID
		printReply(out, reply)
	}
}

func sendChat(cmd *cobra.Command, session, message string) (*domain.Reply, error) {
	reply, err := chatService.Chat(cmd.Context(), domain.ChatRequest{SessionID: session, Message: message})
	if err != nil {
		return nil, fmt.Errorf("chat failed: %w", err)
	}
	return reply, nil
}

func printReply(out io.Writer, reply *domain.Reply) {
	if reply.Error && reply.Message != "" {
		fmt.Fprintf(out, "(%s)\n", reply.Message)
	}
	fmt.Fprintln(out, reply.Response)
	for _, p := range reply.Platforms {
		fmt.Fprintf(out, "  - %s (%s) /platform/%s\n", p.Name, p.Category, p.Slug)
	}
}

func strategyLabel(info domain.StrategyInfo) string {
	if info.Kind != domain.StrategyHosted {
		return "offline matcher"
	}
	if info.Model == "" {
		return info.Provider.String()
	}
	return fmt.Sprintf("%s %s", info.Provider, info.Model)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
