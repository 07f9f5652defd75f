// Package config loads and saves the Scholar configuration file.
//
// Operational knobs that the retrieval pipeline depends on (chunking
// geometry, similarity thresholds, memory budgets) are configuration with
// defaults, not design constants: they live here so they can be tuned
// without touching core code.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Defaults for the retrieval pipeline.
const (
	DefaultChunkSize     = 1200
	DefaultChunkOverlap  = 200
	DefaultTopK          = 5
	DefaultConnThreshold = 0.10
	DefaultMemoryBudget  = 8000
	DefaultRecentWindow  = 5
)

// Chunking configures the sentence chunker.
type Chunking struct {
	// Size is the chunk budget in characters.
	Size int `toml:"size"`

	// Overlap is the boundary overlap budget in characters.
	Overlap int `toml:"overlap"`
}

// Retrieval configures search behaviour.
type Retrieval struct {
	// TopK is the default number of passages fetched per question.
	TopK int `toml:"top_k"`
}

// Memory configures conversational memory.
type Memory struct {
	// Budget is the retained turn size in characters before older turns
	// are collapsed into a summary.
	Budget int `toml:"budget"`

	// RecentWindow is the default window size for recent-turn recall.
	RecentWindow int `toml:"recent_window"`
}

// Projects configures cross-project connection detection.
type Projects struct {
	// ConnectionThreshold is the Jaccard similarity above which two
	// projects are linked.
	ConnectionThreshold float64 `toml:"connection_threshold"`
}

// Backend configures one OpenAI-compatible HTTP backend.
type Backend struct {
	// BaseURL is the API base URL.
	BaseURL string `toml:"base_url"`

	// APIKey is the bearer token. Empty for local inference servers.
	APIKey string `toml:"api_key"`

	// Model is the model name.
	Model string `toml:"model"`
}

// Config is the full Scholar configuration.
type Config struct {
	// DataDir is where JSON state and the SQLite store live.
	// Defaults to ~/.scholar.
	DataDir string `toml:"data_dir"`

	// PapersDir is the directory the watch command monitors.
	PapersDir string `toml:"papers_dir"`

	Chunking  Chunking  `toml:"chunking"`
	Retrieval Retrieval `toml:"retrieval"`
	Memory    Memory    `toml:"memory"`
	Projects  Projects  `toml:"projects"`

	// Embedding backends keyed by language ("turkish", "english").
	// A "default" entry serves unlisted languages.
	Embedding map[string]Backend `toml:"embedding"`

	// Completion is the optional text completion backend.
	Completion Backend `toml:"completion"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Chunking:  Chunking{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Retrieval: Retrieval{TopK: DefaultTopK},
		Memory:    Memory{Budget: DefaultMemoryBudget, RecentWindow: DefaultRecentWindow},
		Projects:  Projects{ConnectionThreshold: DefaultConnThreshold},
		Embedding: map[string]Backend{},
	}
}

// Load reads the configuration from path. A missing file yields defaults.
// If path is empty, ~/.scholar/config.toml is used.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".scholar", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyDefaults() {
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = DefaultChunkSize
	}
	if c.Chunking.Overlap < 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Memory.Budget <= 0 {
		c.Memory.Budget = DefaultMemoryBudget
	}
	if c.Memory.RecentWindow <= 0 {
		c.Memory.RecentWindow = DefaultRecentWindow
	}
	if c.Projects.ConnectionThreshold <= 0 {
		c.Projects.ConnectionThreshold = DefaultConnThreshold
	}
	if c.Embedding == nil {
		c.Embedding = map[string]Backend{}
	}
}
