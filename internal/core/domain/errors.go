package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates the text extractor returned nothing
	// for a source file. Fatal to that document only.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding backend is down.
	// Retryable by the caller; the system never substitutes fake vectors.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrModelMismatch indicates a query was embedded with a different
	// model than the corpus it searches. Programmer error, non-retryable.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrGenerationFailed indicates the external completion service failed.
	// Retryable; retrieval results are preserved via GenerationError.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrCompletionUnavailable indicates no completion service is configured.
	ErrCompletionUnavailable = errors.New("completion service unavailable")
)

// GenerationError is returned when the completion service fails after
// retrieval succeeded. It carries the retrieved passages so callers can
// degrade gracefully instead of losing the retrieval work.
type GenerationError struct {
	// Passages are the retrieval results that survive the failure.
	Passages []Passage

	// Err is the underlying completion failure.
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed with %d passages retrieved: %v", len(e.Passages), e.Err)
}

// Unwrap makes errors.Is(err, ErrGenerationFailed) hold.
func (e *GenerationError) Unwrap() error {
	return ErrGenerationFailed
}

// ParseError is returned when LLM output fails strict schema validation.
// The decode fails closed: callers must handle the failure explicitly
// rather than receiving raw text dressed up as structured data.
type ParseError struct {
	// Raw is the unparseable model output.
	Raw string

	// Err is the underlying decode failure.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
