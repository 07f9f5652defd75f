package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatus_Valid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusPaused.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, ProjectStatus("deleted").Valid())
	assert.False(t, ProjectStatus("").Valid())
}

func TestCorpusText(t *testing.T) {
	p := Project{
		Findings:  []Finding{{Text: "transformers dominate"}, {Text: "attention scales"}},
		Questions: []Question{{Text: "why attention"}},
	}

	corpus := p.CorpusText()

	assert.Contains(t, corpus, "transformers dominate")
	assert.Contains(t, corpus, "attention scales")
	assert.Contains(t, corpus, "why attention")
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("Deep learning, deep LEARNING! 2021.")

	assert.Len(t, set, 3)
	assert.Contains(t, set, "deep")
	assert.Contains(t, set, "learning")
	assert.Contains(t, set, "2021")
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "alpha beta gamma", "alpha beta gamma", 1.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"half overlap", "alpha beta", "beta gamma", 1.0 / 3.0},
		{"both empty", "", "", 0.0},
		{"one empty", "alpha", "", 0.0},
		{"case insensitive", "Alpha BETA", "alpha beta", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestConnections_AddBidirectional(t *testing.T) {
	conns := make(Connections)

	conns.Add("p1", "p2")

	assert.Equal(t, []string{"p2"}, conns.Of("p1"))
	assert.Equal(t, []string{"p1"}, conns.Of("p2"))
}

func TestConnections_AddIdempotent(t *testing.T) {
	conns := make(Connections)

	conns.Add("p1", "p2")
	conns.Add("p1", "p2")
	conns.Add("p2", "p1")

	assert.Len(t, conns.Of("p1"), 1)
	assert.Len(t, conns.Of("p2"), 1)
}

func TestConnections_OfUnknown(t *testing.T) {
	conns := make(Connections)

	assert.Nil(t, conns.Of("missing"))
}
