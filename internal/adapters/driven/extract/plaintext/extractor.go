// Package plaintext provides a text extractor for plain files.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// maxFileSize guards against accidentally ingesting huge binaries.
const maxFileSize = 50 << 20 // 50 MiB

// supportedExtensions are the file types read directly as text.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
}

// Extractor reads plain text files directly from disk.
type Extractor struct{}

// NewExtractor creates a new plaintext extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the file at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("plaintext: unsupported file type %q", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("plaintext: stat %s: %w", path, err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("plaintext: %s exceeds %d bytes", path, int64(maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("plaintext: read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("plaintext: %s is not valid UTF-8", path)
	}

	return string(data), nil
}
