package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driving/watch"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the papers directory and auto-ingest new files",
	Long: `Monitors the configured papers directory and ingests supported
files as they appear. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "directory to watch (default from config)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	dir := watchDir
	if dir == "" {
		dir = cfg.PapersDir
	}
	if dir == "" {
		return errors.New("no papers directory configured; set papers_dir or pass --dir")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(libraryService, dir)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Watch stopped.")
	return nil
}
