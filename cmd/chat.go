package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guesthouse-ai/concierge/internal/chat"
)

var (
	chatUser = "cli"
	chatName = "Guest"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", chatUser, "conversation key (the WhatsApp id in production)")
	chatCmd.Flags().StringVar(&chatName, "name", chatName, "guest display name used when priming a new conversation")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort shutdown

	if err := a.Ingest(ctx, false); err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}

	fmt.Println("Type a message, or \"exit\" to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := a.Responder.Respond(ctx, line, chatUser, chatName)
		if err != nil {
			if !errors.Is(err, chat.ErrHistoryNotSaved) {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
