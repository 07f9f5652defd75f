package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

var (
	askScope     []string
	askUseMemory bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in the library",
	Long: `Retrieves the most relevant passages, generates an answer backed
by them, and prints the sources as APA-style citations. Without a
configured completion backend the retrieved passages are printed raw.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVar(&askScope, "docs", nil, "restrict to these document IDs")
	askCmd.Flags().BoolVarP(&askUseMemory, "memory", "m", false, "record the exchange in session memory")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	ctx := context.Background()
	answer, err := assistantService.Ask(ctx, args[0], askScope, askUseMemory)
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			// Generation failed but retrieval did not: show the evidence.
			cmd.PrintErrf("Answer generation unavailable (%v); retrieved passages:\n\n", genErr.Err)
			printPassages(cmd, genErr.Passages)
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	if answer.Found && len(answer.Citations) > 0 {
		cmd.Println("\nSources:")
		for _, citation := range answer.Citations {
			cmd.Printf("  %s\n", citation)
		}
	}
	return nil
}

func printPassages(cmd *cobra.Command, passages []domain.Passage) {
	for i, p := range passages {
		cmd.Printf("  [%d] %s %s (%.2f)\n", i+1, p.Chunk.Text, domain.InTextCitation(p.Document), p.Similarity)
	}
}
