package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetIndex bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the PDF corpus into the knowledge index",
	Long: `Ingest extracts, chunks and embeds every PDF in the corpus directory
and stores the result in the persistent knowledge index.

A populated index is left untouched; pass --reset to drop it and rebuild
from the current corpus (required after documents change, since nothing
re-ingests automatically).`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&resetIndex, "reset", false, "drop the existing index and rebuild it from the corpus")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort shutdown

	if err := a.Ingest(ctx, resetIndex); err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}
	return nil
}
