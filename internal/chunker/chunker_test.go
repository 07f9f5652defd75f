package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c := New()

	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultOverlap, c.overlap)
}

func TestNew_OverlapClampedBelowChunkSize(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(100))

	assert.Equal(t, 25, c.overlap)
}

func TestNew_IgnoresInvalidOptions(t *testing.T) {
	c := New(WithChunkSize(0), WithOverlap(-1))

	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultOverlap, c.overlap)
}

func TestChunk_EmptyText(t *testing.T) {
	c := New()

	assert.Nil(t, c.Chunk(""))
	assert.Nil(t, c.Chunk("   \t\n  "))
}

func TestChunk_SingleSentence(t *testing.T) {
	c := New()

	chunks := c.Chunk("Just one sentence.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Just one sentence.", chunks[0])
}

func TestChunk_SentenceBoundaries(t *testing.T) {
	c := New(WithChunkSize(20), WithOverlap(5))

	chunks := c.Chunk("Sentence one. Sentence two. Sentence three.")

	require.Len(t, chunks, 3)
	assert.Equal(t, "Sentence one.", chunks[0])
	assert.Equal(t, "one. Sentence two.", chunks[1])
	assert.Equal(t, "two. Sentence three.", chunks[2])
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 20)
	}
}

func TestChunk_OversizedSentenceEmittedWhole(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(0))
	long := "This single sentence is far longer than the chunk budget allows."

	chunks := c.Chunk(long)

	require.Len(t, chunks, 1)
	assert.Equal(t, long, chunks[0])
}

func TestChunk_NoOverlapPreservesText(t *testing.T) {
	c := New(WithChunkSize(30), WithOverlap(0))
	text := "Alpha beta gamma. Delta epsilon. Zeta eta theta. Iota kappa."

	chunks := c.Chunk(text)

	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, " "))
}

func TestChunk_OverlapSeedsNextChunk(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(10))

	chunks := c.Chunk("First sentence goes here today. Second sentence goes here too. Third sentence closes it out.")

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		seed := strings.Join(prevWords[len(prevWords)-2:], " ")
		assert.True(t, strings.HasPrefix(chunks[i], seed),
			"chunk %d should start with the tail of chunk %d", i, i-1)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c := New(WithChunkSize(25), WithOverlap(5))
	text := "One two three. Four five six. Seven eight nine. Ten eleven twelve."

	first := c.Chunk(text)
	second := c.Chunk(text)

	assert.Equal(t, first, second)
}

func TestOverlapTail(t *testing.T) {
	tests := []struct {
		name    string
		overlap int
		chunk   string
		want    string
	}{
		{"zero overlap", 0, "some words here", ""},
		{"one word", 5, "some words here", "here"},
		{"two words", 10, "some words here", "words here"},
		{"more than available", 100, "two words", "two words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithChunkSize(1000), WithOverlap(tt.overlap))
			assert.Equal(t, tt.want, c.overlapTail(tt.chunk))
		})
	}
}
