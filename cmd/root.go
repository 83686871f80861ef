// Package cmd implements the concierge command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/guesthouse-ai/concierge/internal/app"
	"github.com/guesthouse-ai/concierge/internal/config"
	"github.com/guesthouse-ai/concierge/internal/log"
)

var (
	verbose bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge - knowledge-grounded guest assistant",
	Long: `Concierge answers guest questions about a rental property.
Replies are grounded in a PDF knowledge base through retrieval-augmented
generation, and each guest keeps a persistent conversation history.

Running concierge without a subcommand starts an interactive chat.`,
	RunE: runChat,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "log in JSON format")
}

// newLogger builds the process logger from the persistent flags.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, JSON: jsonLog})
	slog.SetDefault(logger)
	return logger
}

// newApp loads configuration and wires the application.
func newApp(ctx context.Context) (*app.App, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing application: %w", err)
	}
	return a, nil
}
