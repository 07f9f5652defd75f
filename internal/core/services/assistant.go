package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scholarsphere-labs/scholar-cli/internal/core/domain"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driven"
	"github.com/scholarsphere-labs/scholar-cli/internal/core/ports/driving"
	"github.com/scholarsphere-labs/scholar-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// answerSystemPrompt instructs the model to answer only from the supplied
// passages and to cite them.
const answerSystemPrompt = `Sen akademik dokümanlar üzerinde çalışan bir araştırma asistanısın.
Soruları YALNIZCA sana verilen pasajlara dayanarak yanıtla.
Pasajlarda olmayan bilgi uydurma. Her iddiada ilgili kaynağın
künyesini parantez içinde belirt.`

// deltaSystemPrompt instructs the model to emit a strict JSON context delta.
const deltaSystemPrompt = `Aşağıdaki soru-cevap çiftinden araştırma bağlamını çıkar.
SADECE şu alanları içeren geçerli bir JSON nesnesi döndür, başka hiçbir metin yazma:
{"topics": [], "documents": [], "questions": [], "findings": [], "insights": [], "source": ""}`

// AssistantService orchestrates retrieval-grounded question answering:
// retrieve, cite, generate, remember. Retrieval gates generation; with no
// retrieved passages the completion backend is never called.
type AssistantService struct {
	index      driving.IndexService
	completion driven.CompletionService
	memory     driving.MemoryService
	sessionID  string
	topK       int
}

// NewAssistantService creates a new assistant.
// completion and memory are optional (can be nil).
func NewAssistantService(index driving.IndexService, completion driven.CompletionService, memory driving.MemoryService, sessionID string, topK int) *AssistantService {
	if topK <= 0 {
		topK = 5
	}
	if sessionID == "" {
		sessionID = "default"
	}
	return &AssistantService{
		index:      index,
		completion: completion,
		memory:     memory,
		sessionID:  sessionID,
		topK:       topK,
	}
}

// Ask answers a question grounded in the indexed library.
func (s *AssistantService) Ask(ctx context.Context, question string, scope []string, useMemory bool) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question required: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passages, err := s.index.Search(ctx, question, domain.SearchOptions{TopK: s.topK, Scope: scope})
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(passages) == 0 {
		logger.Debug("No passages retrieved, skipping generation")
		return &domain.Answer{Text: domain.NotFoundAnswer, Found: false}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	citations := citationTokens(passages)

	if s.completion == nil {
		return nil, &domain.GenerationError{
			Passages: passages,
			Err:      domain.ErrCompletionUnavailable,
		}
	}

	prompt, err := s.buildPrompt(ctx, question, passages, useMemory)
	if err != nil {
		return nil, err
	}

	text, err := s.completion.Complete(ctx, prompt, answerSystemPrompt)
	if err != nil {
		return nil, &domain.GenerationError{Passages: passages, Err: err}
	}

	answer := &domain.Answer{
		Text:      text,
		Found:     true,
		Passages:  passages,
		Citations: citations,
	}

	if useMemory && s.memory != nil {
		s.remember(ctx, question, answer)
	}
	return answer, nil
}

// buildPrompt assembles the grounded prompt: numbered cited passages, the
// optional session context block, and the question.
func (s *AssistantService) buildPrompt(ctx context.Context, question string, passages []domain.Passage, useMemory bool) (string, error) {
	var b strings.Builder
	b.WriteString("Kaynak pasajlar:\n\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s %s\n\n", i+1, p.Chunk.Text, domain.InTextCitation(p.Document))
	}

	if useMemory && s.memory != nil {
		block, err := s.memory.PromptContext(ctx, s.sessionID)
		if err != nil {
			logger.Warn("Prompt context unavailable: %v", err)
		} else if block != "" {
			b.WriteString(block)
			b.WriteByte('\n')
		}
	}

	fmt.Fprintf(&b, "Soru: %s\n", question)
	return b.String(), nil
}

// remember records the exchange into conversational memory. Memory is
// best effort: extraction or persistence failures are logged, never
// surfaced as ask failures.
func (s *AssistantService) remember(ctx context.Context, question string, answer *domain.Answer) {
	delta := s.extractDelta(ctx, question, answer)
	if err := s.memory.AddInteraction(ctx, s.sessionID, question, answer.Text, delta); err != nil {
		logger.Warn("Recording interaction failed: %v", err)
	}
}

// extractDelta asks the model for a structured context delta. Any decode
// failure discards the reply entirely; malformed output is never merged.
func (s *AssistantService) extractDelta(ctx context.Context, question string, answer *domain.Answer) *domain.ContextDelta {
	prompt := fmt.Sprintf("Soru: %s\nCevap: %s\n", question, answer.Text)
	raw, err := s.completion.Complete(ctx, prompt, deltaSystemPrompt)
	if err != nil {
		logger.Debug("Context extraction failed: %v", err)
		return nil
	}
	delta, err := ParseContextDelta(strings.TrimSpace(raw))
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("Discarding malformed context delta: %v", parseErr.Err)
		}
		return nil
	}
	if delta.Source == "" && len(answer.Citations) > 0 {
		delta.Source = answer.Citations[0]
	}
	return delta
}

// citationTokens returns the deduplicated in-text citations of the
// passages' source documents, preserving retrieval order.
func citationTokens(passages []domain.Passage) []string {
	seen := make(map[string]bool, len(passages))
	var tokens []string
	for _, p := range passages {
		token := domain.InTextCitation(p.Document)
		if seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// Tools exposes the assistant's capabilities as a composable set.
func (s *AssistantService) Tools() domain.Toolset {
	return domain.NewToolset(
		domain.Tool{
			Name:        "search_documents",
			Description: "Search the indexed library and return matching passages",
			Params:      []string{"query", "top_k"},
			Handler: func(ctx context.Context, args map[string]string) (string, error) {
				passages, err := s.index.Search(ctx, args["query"], domain.SearchOptions{TopK: s.topK})
				if err != nil {
					return "", err
				}
				var b strings.Builder
				for _, p := range passages {
					fmt.Fprintf(&b, "%s %s\n", p.Chunk.Text, domain.InTextCitation(p.Document))
				}
				return b.String(), nil
			},
		},
		domain.Tool{
			Name:        "ask_question",
			Description: "Answer a question grounded in the indexed library with citations",
			Params:      []string{"question"},
			Handler: func(ctx context.Context, args map[string]string) (string, error) {
				answer, err := s.Ask(ctx, args["question"], nil, false)
				if err != nil {
					return "", err
				}
				return answer.Text, nil
			},
		},
		domain.Tool{
			Name:        "cite_sources",
			Description: "Render the bibliography of the given passages' source documents",
			Params:      []string{"question"},
			Handler: func(ctx context.Context, args map[string]string) (string, error) {
				passages, err := s.index.Search(ctx, args["question"], domain.SearchOptions{TopK: s.topK})
				if err != nil {
					return "", err
				}
				docs := make([]domain.Document, 0, len(passages))
				for _, p := range passages {
					docs = append(docs, p.Document)
				}
				return strings.Join(domain.Bibliography(docs), "\n"), nil
			},
		},
	)
}
