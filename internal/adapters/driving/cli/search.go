package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

var (
	searchLimit int
	searchScope []string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library for passages",
	Long: `Performs semantic search across the indexed chunks and prints the
best matching passages with their source citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().StringSliceVar(&searchScope, "docs", nil, "restrict to these document IDs")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	ctx := context.Background()
	passages, err := indexService.Search(ctx, args[0], domain.SearchOptions{
		TopK:  searchLimit,
		Scope: searchScope,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(passages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(passages) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, p := range passages {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, domain.InTextCitation(p.Document), p.Similarity)
		cmd.Printf("      %s\n", p.Chunk.Text)
		cmd.Println()
	}
	return nil
}
