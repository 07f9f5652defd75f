// Package cli provides the cobra command surface of scholar.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/embedding"
	embeddingopenai "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/embedding/openai"
	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/extract/plaintext"
	llmopenai "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/llm/openai"
	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/storage/file"
	"github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/storage/sqlite"
	vectorchromem "github.com/scholarsphere-labs/scholar-cli/internal/adapters/driven/vector/chromem"
	"github.com/scholarsphere-labs/scholar-cli/internal/chunker"
	"github.com/scholarsphere-labs/scholar-cli/internal/config"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/services"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	cfgPath   string
	verbose   bool
	sessionID string
)

// Services wired in initServices and shared by all commands.
var (
	cfg              *config.Config
	libraryService   driving.LibraryService
	indexService     driving.IndexService
	assistantService driving.AssistantService
	memoryService    driving.MemoryService
	projectService   driving.ProjectService

	// closers are released after every command run.
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Local research assistant over your document library",
	Long: `Scholar ingests academic documents into a local library,
answers questions grounded in their content with APA-style citations,
and tracks research projects and conversational context between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.scholar/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "default", "conversation session ID")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices loads the configuration and wires the full service graph.
func initServices() error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scholar")
	}

	docStore, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	closers = append(closers, docStore.Close)

	vectors, err := vectorchromem.NewIndex(filepath.Join(dataDir, "vectors"))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	closers = append(closers, vectors.Close)

	sessionStore, err := file.NewSessionStore(filepath.Join(dataDir, "sessions"))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	projectStore, err := file.NewProjectStore(dataDir)
	if err != nil {
		return fmt.Errorf("open project store: %w", err)
	}
	metadataStore, err := file.NewMetadataStore(dataDir)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}

	registry, err := buildEmbedderRegistry()
	if err != nil {
		return err
	}
	closers = append(closers, registry.Close)

	completion, err := buildCompletion()
	if err != nil {
		return err
	}
	if completion != nil {
		closers = append(closers, completion.Close)
	}

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)

	indexService = services.NewIndexService(registry, vectors, docStore)
	libraryService = services.NewLibraryService(
		plaintext.NewExtractor(), indexService, docStore, metadataStore, completion, splitter)
	memoryService = services.NewMemoryService(
		sessionStore, completion, cfg.Memory.Budget, cfg.Memory.RecentWindow)
	projectService = services.NewProjectService(projectStore, cfg.Projects.ConnectionThreshold)
	assistantService = services.NewAssistantService(
		indexService, completion, memoryService, sessionID, cfg.Retrieval.TopK)

	return nil
}

// buildEmbedderRegistry constructs one embedding backend per configured
// language. Without configuration a default OpenAI backend is assumed.
func buildEmbedderRegistry() (*embedding.Registry, error) {
	backends := make(map[string]driven.EmbeddingService, len(cfg.Embedding))
	for language, b := range cfg.Embedding {
		svc, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  b.APIKey,
			BaseURL: b.BaseURL,
			Model:   b.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding backend %q: %w", language, err)
		}
		backends[language] = svc
	}

	if _, ok := backends[embedding.DefaultKey]; !ok {
		svc, err := embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey: os.Getenv("OPENAI_API_KEY"),
		})
		if err != nil {
			return nil, fmt.Errorf("default embedding backend: %w", err)
		}
		backends[embedding.DefaultKey] = svc
	}

	return embedding.NewRegistry(backends), nil
}

// buildCompletion constructs the optional completion backend.
// Without a configured model or API key, asking degrades to raw passages.
func buildCompletion() (driven.CompletionService, error) {
	b := cfg.Completion
	apiKey := b.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if b.Model == "" && b.BaseURL == "" && apiKey == "" {
		return nil, nil
	}

	svc, err := llmopenai.NewCompletionService(llmopenai.Config{
		APIKey:  apiKey,
		BaseURL: b.BaseURL,
		Model:   b.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("completion backend: %w", err)
	}
	return svc, nil
}

func closeServices() error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	closers = nil
	return first
}
