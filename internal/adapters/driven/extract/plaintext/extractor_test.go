package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestExtractor_Extract(t *testing.T) {
	path := writeFile(t, "study.txt", []byte("Plain text content.\nSecond line."))
	extractor := NewExtractor()

	text, err := extractor.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Plain text content.\nSecond line.", text)
}

func TestExtractor_Extract_Markdown(t *testing.T) {
	path := writeFile(t, "notes.MD", []byte("# Heading\n\nBody."))
	extractor := NewExtractor()

	text, err := extractor.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Contains(t, text, "# Heading")
}

func TestExtractor_Extract_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "paper.pdf", []byte("%PDF-1.4"))
	extractor := NewExtractor()

	_, err := extractor.Extract(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractor_Extract_MissingFile(t *testing.T) {
	extractor := NewExtractor()

	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))

	assert.Error(t, err)
}

func TestExtractor_Extract_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "binary.txt", []byte{0xff, 0xfe, 0x00, 0x80})
	extractor := NewExtractor()

	_, err := extractor.Extract(context.Background(), path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestExtractor_Extract_CancelledContext(t *testing.T) {
	path := writeFile(t, "study.txt", []byte("content"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	extractor := NewExtractor()

	_, err := extractor.Extract(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}
