// Package chunker provides sentence-boundary text chunking with word overlap.
package chunker

import "strings"

// DefaultChunkSize is the default chunk budget in characters.
const DefaultChunkSize = 1200

// DefaultOverlap is the default overlap budget in characters.
// The overlap is carried as words: the last overlap/5 words of an emitted
// chunk seed the next buffer.
const DefaultOverlap = 200

// Chunker splits text into overlapping passages on sentence boundaries.
// It is a pure function of its configuration: same input, same output.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk budget in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap budget in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	return c
}

// Chunk splits text into ordered chunk texts. Sentences are accumulated
// greedily until appending the next one would exceed the chunk budget; the
// buffer is then emitted and the next buffer is seeded with the tail words
// of the emitted chunk. A single sentence longer than the budget is still
// emitted whole, never truncated mid-sentence. The trailing buffer is
// always emitted; blank chunks are dropped.
func (c *Chunker) Chunk(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	current := ""

	for _, sentence := range sentences {
		test := sentence
		if current != "" {
			test = current + " " + sentence
		}

		if len(test) > c.chunkSize && current != "" {
			chunks = append(chunks, current)
			current = c.overlapTail(current)
			if current != "" {
				current += " " + sentence
			} else {
				current = sentence
			}
			continue
		}
		current = test
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// overlapTail returns the last overlap/5 words of an emitted chunk.
// The words are duplicated into the next buffer, not re-referenced.
func (c *Chunker) overlapTail(chunk string) string {
	words := strings.Fields(chunk)
	n := c.overlap / 5
	if n > len(words) {
		n = len(words)
	}
	if n == 0 {
		return ""
	}
	return strings.Join(words[len(words)-n:], " ")
}

// splitSentences splits on period+space boundaries, keeping the period
// with its sentence so concatenation preserves the original text up to
// whitespace.
func splitSentences(text string) []string {
	parts := strings.SplitAfter(text, ". ")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
