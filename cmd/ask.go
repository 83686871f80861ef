package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guesthouse-ai/concierge/internal/chat"
)

var (
	askUser string
	askName string
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a one-shot question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askUser, "user", "cli", "conversation key (the WhatsApp id in production)")
	askCmd.Flags().StringVar(&askName, "name", "Guest", "guest display name used when priming a new conversation")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort shutdown

	if err := a.Ingest(ctx, false); err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}

	message := strings.Join(args, " ")
	reply, err := a.Responder.Respond(ctx, message, askUser, askName)
	if err != nil {
		// The reply was generated even though persistence failed;
		// print it before surfacing the error.
		if errors.Is(err, chat.ErrHistoryNotSaved) {
			fmt.Println(reply)
		}
		return err
	}

	fmt.Println(reply)
	return nil
}
