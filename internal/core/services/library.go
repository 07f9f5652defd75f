package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarsphere-labs/scholar-cli/internal/chunker"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// titleSampleLen is how much document text the optional LLM title
// extraction sees.
const titleSampleLen = 2000

// maxInferredTitleLen caps LLM-extracted titles.
const maxInferredTitleLen = 150

// titleInvalidChars are stripped from inferred titles.
const titleInvalidChars = `<>:"/\|?*`

// LibraryService manages the document library. Ingestion runs the write
// path of the pipeline: extract, infer metadata, chunk, embed, index.
type LibraryService struct {
	extractor driven.TextExtractor
	index     driving.IndexService
	docStore  driven.DocumentStore
	metadata  driven.MetadataStore

	// completion is optional; when present it is used to extract a
	// proper title from the document text.
	completion driven.CompletionService

	splitter *chunker.Chunker
}

// NewLibraryService creates a new library service.
// The completion parameter is optional (can be nil).
func NewLibraryService(
	extractor driven.TextExtractor,
	index driving.IndexService,
	docStore driven.DocumentStore,
	metadata driven.MetadataStore,
	completion driven.CompletionService,
	splitter *chunker.Chunker,
) *LibraryService {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &LibraryService{
		extractor:  extractor,
		index:      index,
		docStore:   docStore,
		metadata:   metadata,
		completion: completion,
		splitter:   splitter,
	}
}

// Ingest extracts, chunks and indexes the file at path.
// A document whose identity already exists is ingested as a new version;
// the existing document is never mutated.
func (s *LibraryService) Ingest(ctx context.Context, path string) (*domain.Document, error) {
	logger.Section("Ingest Document")
	logger.Debug("Path: %s", path)

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w: %v", path, domain.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("extract %s: empty content: %w", path, domain.ErrExtractionFailed)
	}

	filename := filepath.Base(path)
	id, err := s.versionedID(ctx, filename)
	if err != nil {
		return nil, err
	}
	doc := &domain.Document{
		ID:        id,
		Filename:  filename,
		Content:   text,
		CreatedAt: time.Now(),
		Meta: domain.Metadata{
			Title:    domain.CleanFilename(filename),
			Language: DetectLanguage(text),
		},
	}
	if year := domain.YearToken(*doc); year != domain.NoDate {
		doc.Meta.Year = year
	}

	if title := s.inferTitle(ctx, text); title != "" {
		doc.Meta.Title = title
	}

	pieces := s.splitter.Chunk(text)
	if len(pieces) == 0 {
		return nil, fmt.Errorf("chunk %s: no content: %w", doc.ID, domain.ErrExtractionFailed)
	}
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Ordinal:    i,
			Text:       piece,
		}
	}
	logger.Debug("Chunked into %d passages", len(chunks))

	if err := s.index.Add(ctx, doc, chunks); err != nil {
		return nil, err
	}

	if err := s.metadata.Put(ctx, doc.ID, doc.Meta); err != nil {
		logger.Warn("Metadata record for %s failed: %v", doc.ID, err)
	}

	logger.Info("Ingested %s as %s", filename, doc.ID)
	return doc, nil
}

// versionedID derives the document identity from the filename, appending
// a version counter when the identity is already taken. Store errors
// other than a miss abort ingestion rather than minting a version.
func (s *LibraryService) versionedID(ctx context.Context, filename string) (string, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	id := base
	for version := 2; ; version++ {
		_, err := s.docStore.GetDocument(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("check identity %s: %w", id, err)
		}
		id = fmt.Sprintf("%s_v%d", base, version)
	}
}

// inferTitle asks the completion service for the article title.
// Failures fall back to the filename-derived title silently: title
// inference is a nicety, never a reason to fail ingestion.
func (s *LibraryService) inferTitle(ctx context.Context, text string) string {
	if s.completion == nil {
		return ""
	}

	sample := text
	if len(sample) > titleSampleLen {
		sample = sample[:titleSampleLen]
	}
	prompt := fmt.Sprintf(
		"Extract ONLY the article title from the academic text below. Reply with the title and nothing else.\n\nText:\n%s\n\nTitle:",
		sample,
	)

	title, err := s.completion.Complete(ctx, prompt, "You extract article titles from academic text.")
	if err != nil {
		logger.Debug("Title inference failed: %v", err)
		return ""
	}

	title = strings.TrimSpace(title)
	for _, c := range titleInvalidChars {
		title = strings.ReplaceAll(title, string(c), "")
	}
	if len(title) > maxInferredTitleLen {
		title = title[:maxInferredTitleLen]
	}
	return title
}

// Remove deletes a document, its chunks and vectors, and its metadata.
func (s *LibraryService) Remove(ctx context.Context, documentID string) (bool, error) {
	removed, err := s.index.Delete(ctx, documentID)
	if err != nil {
		return false, err
	}
	if err := s.metadata.Delete(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Metadata delete for %s failed: %v", documentID, err)
	}
	return removed, nil
}

// List returns the ingested documents, newest first.
func (s *LibraryService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Metadata returns the recorded metadata for a document, falling back to
// the document record when no metadata entry exists.
func (s *LibraryService) Metadata(ctx context.Context, documentID string) (domain.Metadata, error) {
	meta, err := s.metadata.Get(ctx, documentID)
	if err == nil {
		return meta, nil
	}
	doc, docErr := s.docStore.GetDocument(ctx, documentID)
	if docErr != nil {
		return domain.Metadata{}, err
	}
	return doc.Meta, nil
}
