package domain

import "time"

// Metadata holds the extracted or inferred bibliographic fields of a document.
// Every field is optional; an empty string means the value is unknown.
type Metadata struct {
	// Title is the document title. Defaults to the cleaned filename.
	Title string `json:"title,omitempty"`

	// Authors is the author line as found in the source metadata.
	// Multiple authors are comma separated.
	Authors string `json:"authors,omitempty"`

	// Year is the publication year as a 4-digit string.
	Year string `json:"year,omitempty"`

	// Field is the research field, when known.
	Field string `json:"field,omitempty"`

	// Journal is the publication venue, when known.
	Journal string `json:"journal,omitempty"`

	// Language is the detected document language ("turkish" or "english").
	Language string `json:"language,omitempty"`
}

// Document represents an ingested academic document.
// Once chunked it is immutable; re-ingesting the same file produces a new
// version with a distinct ID rather than mutating the existing one.
type Document struct {
	// ID is the unique identifier, derived from the source filename.
	ID string

	// Filename is the base name of the source file.
	Filename string

	// Content is the full extracted text before chunking.
	Content string

	// Meta contains the extracted/inferred bibliographic metadata.
	Meta Metadata

	// EmbeddingModel is the name of the model the document was indexed with.
	// Set at index time; a query against this document must use the same model.
	EmbeddingModel string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is an embeddable passage owned by exactly one document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID is a back-reference to the owning document,
	// used only for scoped search.
	DocumentID string

	// Ordinal is the 0-based, contiguous position within the document.
	Ordinal int

	// Text is the passage text. Adjacent chunks duplicate a bounded
	// overlap of words across the boundary.
	Text string

	// Embedding is the vector representation. Its lifetime is tied to
	// the chunk: deleting the chunk deletes the embedding.
	Embedding []float32
}

// Passage is a retrieved chunk with its similarity score,
// hydrated with the owning document's metadata.
type Passage struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Document is the owning document (content omitted by stores that
	// hydrate lazily; metadata is always present).
	Document Document

	// Similarity is the cosine similarity against the query (0-1).
	Similarity float64
}
