package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage library documents",
	Long:  `List, inspect, cite, or remove ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var documentInfoCmd = &cobra.Command{
	Use:   "info [doc-id]",
	Short: "Show a document's recorded metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentInfo,
}

var documentCiteCmd = &cobra.Command{
	Use:   "cite [doc-id...]",
	Short: "Print APA-style reference entries",
	Long: `Prints the bibliography of the given documents, or of the whole
library when no IDs are given. Entries are deduplicated and sorted.`,
	RunE: runDocumentCite,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentInfoCmd)
	documentCmd.AddCommand(documentCiteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()
	docs, err := libraryService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("Library is empty.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title:    %s\n", docs[i].Meta.Title)
		if docs[i].Meta.Authors != "" {
			cmd.Printf("    Authors:  %s\n", docs[i].Meta.Authors)
		}
		if docs[i].Meta.Language != "" {
			cmd.Printf("    Language: %s\n", docs[i].Meta.Language)
		}
		cmd.Printf("    Model:    %s\n", docs[i].EmbeddingModel)
		cmd.Printf("    Added:    %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	docID := args[0]
	removed, err := libraryService.Remove(context.Background(), docID)
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	if !removed {
		cmd.Printf("Document %s was not in the library.\n", docID)
		return nil
	}
	cmd.Printf("Document %s removed.\n", docID)
	return nil
}

func runDocumentInfo(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	meta, err := libraryService.Metadata(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	cmd.Printf("Document: %s\n\n", args[0])
	cmd.Printf("  Title:    %s\n", meta.Title)
	if meta.Authors != "" {
		cmd.Printf("  Authors:  %s\n", meta.Authors)
	}
	if meta.Year != "" {
		cmd.Printf("  Year:     %s\n", meta.Year)
	}
	if meta.Field != "" {
		cmd.Printf("  Field:    %s\n", meta.Field)
	}
	if meta.Journal != "" {
		cmd.Printf("  Journal:  %s\n", meta.Journal)
	}
	if meta.Language != "" {
		cmd.Printf("  Language: %s\n", meta.Language)
	}
	return nil
}

func runDocumentCite(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	ctx := context.Background()
	docs, err := libraryService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(args) > 0 {
		wanted := make(map[string]bool, len(args))
		for _, id := range args {
			wanted[id] = true
		}
		filtered := docs[:0]
		for _, doc := range docs {
			if wanted[doc.ID] {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}

	entries := domain.Bibliography(docs)
	if len(entries) == 0 {
		cmd.Println("Nothing to cite.")
		return nil
	}

	cmd.Println("References:")
	for _, entry := range entries {
		cmd.Printf("  %s\n", entry)
	}
	return nil
}
