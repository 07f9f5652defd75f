package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, cfg.Chunking.Size)
	assert.Equal(t, DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, DefaultTopK, cfg.Retrieval.TopK)
	assert.Equal(t, DefaultMemoryBudget, cfg.Memory.Budget)
	assert.Equal(t, DefaultRecentWindow, cfg.Memory.RecentWindow)
	assert.InDelta(t, DefaultConnThreshold, cfg.Projects.ConnectionThreshold, 1e-9)
	assert.NotNil(t, cfg.Embedding)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
papers_dir = "/data/papers"

[chunking]
size = 800

[retrieval]
top_k = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/papers", cfg.PapersDir)
	assert.Equal(t, 800, cfg.Chunking.Size)
	assert.Equal(t, 3, cfg.Retrieval.TopK)

	// Unset sections fall back to defaults.
	assert.Equal(t, DefaultChunkOverlap, cfg.Chunking.Overlap)
	assert.Equal(t, DefaultMemoryBudget, cfg.Memory.Budget)
	assert.InDelta(t, DefaultConnThreshold, cfg.Projects.ConnectionThreshold, 1e-9)
}

func TestLoad_EmbeddingBackends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[embedding.turkish]
base_url = "http://localhost:11434/v1"
model = "turkish-embed"

[embedding.default]
base_url = "https://api.openai.com/v1"
api_key = "sk-test"
model = "text-embedding-3-small"

[completion]
base_url = "https://api.openai.com/v1"
api_key = "sk-test"
model = "gpt-4o-mini"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	require.Contains(t, cfg.Embedding, "turkish")
	assert.Equal(t, "turkish-embed", cfg.Embedding["turkish"].Model)
	assert.Empty(t, cfg.Embedding["turkish"].APIKey)
	require.Contains(t, cfg.Embedding, "default")
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding["default"].Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.DataDir = "/data/scholar"
	cfg.Chunking.Size = 900
	cfg.Projects.ConnectionThreshold = 0.25
	cfg.Embedding["default"] = Backend{BaseURL: "http://localhost:8080/v1", Model: "local-embed"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/scholar", loaded.DataDir)
	assert.Equal(t, 900, loaded.Chunking.Size)
	assert.InDelta(t, 0.25, loaded.Projects.ConnectionThreshold, 1e-9)
	assert.Equal(t, "local-embed", loaded.Embedding["default"].Model)
}
