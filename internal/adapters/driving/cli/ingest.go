package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the library",
	Long: `Extracts text from the given files, chunks and embeds them, and
adds them to the searchable library. Re-ingesting a file creates a new
version; existing documents are never modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()
	failed := 0
	for _, path := range args {
		doc, err := libraryService.Ingest(ctx, path)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}
		cmd.Printf("  %s -> %s (%q, %d chars)\n", path, doc.ID, doc.Meta.Title, len(doc.Content))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}
