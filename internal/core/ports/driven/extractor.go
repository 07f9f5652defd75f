package driven

import "context"

// TextExtractor produces raw text from a source file.
// The extractor is treated as a reliable collaborator: it either returns
// the full text or an empty string, which signals extraction failure.
//
// Implementations may include:
//   - Plaintext files read directly
//   - PDF text extraction via an external tool
type TextExtractor interface {
	// Extract returns the text content of the file at path.
	// An empty result means the source is unreadable.
	Extract(ctx context.Context, path string) (string, error)
}
