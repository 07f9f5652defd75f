package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"pdf extension", "paper.pdf", "paper"},
		{"txt extension", "notes.txt", "notes"},
		{"underscores", "deep_learning_survey.pdf", "deep learning survey"},
		{"leading numbers", "01- Introduction.pdf", "Introduction"},
		{"collapsed whitespace", "a__b___c.txt", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.filename))
		})
	}
}

func TestAuthorToken_FromMetadata(t *testing.T) {
	tests := []struct {
		name    string
		authors string
		want    string
	}{
		{"single author", "Kaya", "Kaya"},
		{"two authors", "Kaya, Demir", "Kaya ve Demir"},
		{"three authors", "Kaya, Demir, Arslan", "Kaya et al."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Filename: "x.pdf", Meta: Metadata{Authors: tt.authors}}
			assert.Equal(t, tt.want, AuthorToken(doc))
		})
	}
}

func TestAuthorToken_FromFilename(t *testing.T) {
	doc := Document{Filename: "Ahmet_Yilmaz_2021_AI_Ethics.pdf"}

	assert.Equal(t, "Ahmet et al.", AuthorToken(doc))
}

func TestAuthorToken_Unresolvable(t *testing.T) {
	doc := Document{Filename: "2021_notes.txt"}

	assert.Equal(t, UnknownAuthor, AuthorToken(doc))
}

func TestYearToken(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"metadata year", Document{Filename: "x.pdf", Meta: Metadata{Year: "2019"}}, "2019"},
		{"filename year", Document{Filename: "study_2021_final.pdf"}, "2021"},
		{"metadata wins", Document{Filename: "study_2021.pdf", Meta: Metadata{Year: "2018"}}, "2018"},
		{"no year", Document{Filename: "study.pdf"}, NoDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearToken(tt.doc))
		})
	}
}

func TestInTextCitation(t *testing.T) {
	doc := Document{Filename: "Ahmet_Yilmaz_2021_AI_Ethics.pdf"}

	citation := InTextCitation(doc)

	assert.Equal(t, "(Ahmet et al., 2021)", citation)
	assert.Contains(t, citation, "2021")
	assert.Contains(t, citation, "Ahmet")
}

func TestInTextCitation_Idempotent(t *testing.T) {
	doc := Document{
		Filename: "Kaya_2020_study.pdf",
		Meta:     Metadata{Authors: "Kaya, Demir"},
	}

	assert.Equal(t, InTextCitation(doc), InTextCitation(doc))
}

func TestReferenceEntry_DefaultJournal(t *testing.T) {
	doc := Document{Filename: "Kaya_2020_study.pdf"}

	entry := ReferenceEntry(doc)

	assert.Contains(t, entry, DefaultJournal)
	assert.Contains(t, entry, "2020")
}

func TestReferenceEntry_ExplicitMetadata(t *testing.T) {
	doc := Document{
		Filename: "x.pdf",
		Meta: Metadata{
			Authors: "Kaya",
			Year:    "2019",
			Title:   "On Retrieval",
			Journal: "Journal of Information Systems",
		},
	}

	assert.Equal(t, "Kaya (2019). On Retrieval. Journal of Information Systems.", ReferenceEntry(doc))
}

func TestBibliography_DeduplicatesByID(t *testing.T) {
	doc := Document{ID: "doc-1", Filename: "Kaya_2020_study.pdf"}

	entries := Bibliography([]Document{doc, doc, doc})

	assert.Len(t, entries, 1)
}

func TestBibliography_Sorted(t *testing.T) {
	docs := []Document{
		{ID: "doc-1", Filename: "x.pdf", Meta: Metadata{Authors: "Zorlu", Year: "2020"}},
		{ID: "doc-2", Filename: "y.pdf", Meta: Metadata{Authors: "Arslan", Year: "2021"}},
	}

	entries := Bibliography(docs)

	require.Len(t, entries, 2)
	assert.True(t, strings.HasPrefix(entries[0], "Arslan"))
	assert.True(t, strings.HasPrefix(entries[1], "Zorlu"))
}

func TestBibliography_DisambiguatesSameAuthor(t *testing.T) {
	docs := []Document{
		{ID: "doc-a", Filename: "a.pdf", Meta: Metadata{Authors: "Kaya", Year: "2019", Title: "First Study"}},
		{ID: "doc-b", Filename: "b.pdf", Meta: Metadata{Authors: "Kaya", Year: "2021", Title: "Second Study"}},
	}

	entries := Bibliography(docs)

	require.Len(t, entries, 2)
	joined := strings.Join(entries, "\n")
	assert.Contains(t, joined, "Kaya (2019)")
	assert.Contains(t, joined, "Kaya (2) (2021)")
}

func TestBibliography_StableAcrossInputOrder(t *testing.T) {
	a := Document{ID: "doc-a", Filename: "a.pdf", Meta: Metadata{Authors: "Kaya", Year: "2019"}}
	b := Document{ID: "doc-b", Filename: "b.pdf", Meta: Metadata{Authors: "Kaya", Year: "2021"}}

	assert.Equal(t, Bibliography([]Document{a, b}), Bibliography([]Document{b, a}))
}
