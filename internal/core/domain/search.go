package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of passages to return.
	TopK int

	// Scope restricts search to the given document IDs.
	// Empty means all indexed documents.
	Scope []string
}

// NotFoundAnswer is the canned answer returned when retrieval yields
// nothing. No completion call is made in that case.
const NotFoundAnswer = "İlgili dokümanlarda bu soruya dair bir bilgi bulunamadı."

// Answer is the result of one orchestrated ask.
type Answer struct {
	// Text is the generated answer, or NotFoundAnswer when nothing matched.
	Text string

	// Found reports whether retrieval produced any passages.
	Found bool

	// Passages are the retrieved source passages, best first.
	Passages []Passage

	// Citations are the deduplicated in-text citation tokens of the
	// passages' source documents.
	Citations []string
}
