package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect conversational memory",
	Long: `Shows the current session's turns and research context, searches
recorded findings, and resets sessions. Select a session with --session.`,
}

var (
	memoryRecentCount int
	memorySearchKind  string
)

var memoryRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent turns",
	Args:  cobra.NoArgs,
	RunE:  runMemoryRecent,
}

var memoryContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show the session research context",
	Args:  cobra.NoArgs,
	RunE:  runMemoryContext,
}

var memorySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search findings, insights and questions",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemorySearch,
}

var memoryResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the session",
	Args:  cobra.NoArgs,
	RunE:  runMemoryReset,
}

func init() {
	memoryRecentCmd.Flags().IntVarP(&memoryRecentCount, "count", "n", 5, "number of turns to show")
	memorySearchCmd.Flags().StringVarP(&memorySearchKind, "kind", "k", "all", "what to search: all, findings, insights, questions")

	memoryCmd.AddCommand(memoryRecentCmd)
	memoryCmd.AddCommand(memoryContextCmd)
	memoryCmd.AddCommand(memorySearchCmd)
	memoryCmd.AddCommand(memoryResetCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryRecent(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	turns, err := memoryService.Recent(context.Background(), sessionID, memoryRecentCount)
	if err != nil {
		return fmt.Errorf("failed to load turns: %w", err)
	}

	if len(turns) == 0 {
		cmd.Printf("Session %s has no turns.\n", sessionID)
		return nil
	}

	for _, turn := range turns {
		marker := ""
		if turn.Summary {
			marker = " (summary)"
		}
		cmd.Printf("Q%s: %s\n", marker, turn.Question)
		cmd.Printf("A: %s\n\n", turn.Answer)
	}
	return nil
}

func runMemoryContext(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	rc, err := memoryService.Context(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to load context: %w", err)
	}

	cmd.Printf("Session: %s\n\n", sessionID)
	if len(rc.Topics) > 0 {
		cmd.Printf("  Topics:    %s\n", strings.Join(rc.Topics, ", "))
	}
	if len(rc.Documents) > 0 {
		cmd.Printf("  Documents: %s\n", strings.Join(rc.Documents, ", "))
	}
	if len(rc.Findings) > 0 {
		cmd.Println("\n  Findings:")
		for _, f := range rc.Findings {
			cmd.Printf("    - %s\n", f.Text)
		}
	}
	if len(rc.Insights) > 0 {
		cmd.Println("\n  Insights:")
		for _, in := range rc.Insights {
			cmd.Printf("    - %s\n", in.Text)
		}
	}
	if len(rc.Questions) > 0 {
		cmd.Println("\n  Open questions:")
		for _, q := range rc.Questions {
			cmd.Printf("    - %s\n", q.Text)
		}
	}
	return nil
}

func runMemorySearch(cmd *cobra.Command, args []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	kind, err := parseSearchKind(memorySearchKind)
	if err != nil {
		return err
	}

	hits, err := memoryService.Search(context.Background(), sessionID, args[0], kind)
	if err != nil {
		return fmt.Errorf("failed to search memory: %w", err)
	}

	if len(hits) == 0 {
		cmd.Println("No matches.")
		return nil
	}

	for _, hit := range hits {
		if hit.Source != "" {
			cmd.Printf("  [%s] %s (%s)\n", hit.Kind, hit.Content, hit.Source)
		} else {
			cmd.Printf("  [%s] %s\n", hit.Kind, hit.Content)
		}
	}
	return nil
}

func runMemoryReset(cmd *cobra.Command, _ []string) error {
	if memoryService == nil {
		return errors.New("memory service not configured")
	}

	if err := memoryService.Reset(context.Background(), sessionID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	cmd.Printf("Session %s cleared.\n", sessionID)
	return nil
}

func parseSearchKind(kind string) (domain.SearchKind, error) {
	switch kind {
	case "all", "":
		return domain.SearchAll, nil
	case "findings":
		return domain.SearchFindings, nil
	case "insights":
		return domain.SearchInsights, nil
	case "questions":
		return domain.SearchQuestions, nil
	}
	return domain.SearchAll, fmt.Errorf("unknown search kind %q: %w", kind, domain.ErrInvalidInput)
}
