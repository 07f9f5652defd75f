package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Citation formatting is derived, never stored: the same document always
// renders the same strings, and rendering has no side effects.

// Fallback literals used when resolution fails.
const (
	// UnknownAuthor is rendered when no author can be resolved.
	UnknownAuthor = "Unknown Author"

	// NoDate is the APA "tarih yok" marker for unresolvable years.
	NoDate = "t.y."

	// DefaultJournal is the venue rendered when metadata has none.
	DefaultJournal = "Akademik Araştırmalar Dergisi"
)

// maxTitleLen caps rendered reference titles.
const maxTitleLen = 80

var (
	yearPattern    = regexp.MustCompile(`(19|20)\d{2}`)
	leadingNumbers = regexp.MustCompile(`^\d+[.-]\s*`)
	multiSpace     = regexp.MustCompile(`\s+`)
)

// CleanFilename strips the extension and file-naming noise from a filename
// so it can serve as a citation title of last resort.
func CleanFilename(filename string) string {
	cleaned := strings.TrimSuffix(filename, ".pdf")
	cleaned = strings.TrimSuffix(cleaned, ".txt")
	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = leadingNumbers.ReplaceAllString(cleaned, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
	}
	return cleaned
}

// AuthorToken resolves the author part of a citation.
// Resolution order: explicit metadata author field, then capitalized words
// of the cleaned filename, then UnknownAuthor.
func AuthorToken(doc Document) string {
	if authors := strings.TrimSpace(doc.Meta.Authors); authors != "" {
		parts := strings.Split(authors, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch {
		case len(parts) > 2:
			return parts[0] + " et al."
		case len(parts) == 2:
			return parts[0] + " ve " + parts[1]
		default:
			return parts[0]
		}
	}

	// Capitalized words near the front of the filename are usually names.
	words := strings.Fields(CleanFilename(doc.Filename))
	var candidates []string
	for i, word := range words {
		if i >= 3 {
			break
		}
		if len(word) > 2 && word[0] >= 'A' && word[0] <= 'Z' {
			candidates = append(candidates, word)
		}
	}
	switch {
	case len(candidates) > 1:
		return candidates[0] + " et al."
	case len(candidates) == 1:
		return candidates[0]
	}

	return UnknownAuthor
}

// YearToken resolves the year part of a citation.
// Resolution order: first 19xx/20xx match in the metadata year field,
// then in the filename, then NoDate.
func YearToken(doc Document) string {
	if match := yearPattern.FindString(doc.Meta.Year); match != "" {
		return match
	}
	if match := yearPattern.FindString(doc.Filename); match != "" {
		return match
	}
	return NoDate
}

// titleToken resolves the rendered title, defaulting to the cleaned filename.
func titleToken(doc Document) string {
	title := strings.TrimSpace(doc.Meta.Title)
	if title == "" {
		title = CleanFilename(doc.Filename)
	}
	if title == "" {
		title = "Academic Research"
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}
	return title
}

// InTextCitation renders the APA-style in-text citation "(Author, Year)".
// Calling it twice on the same document yields byte-identical strings.
func InTextCitation(doc Document) string {
	return fmt.Sprintf("(%s, %s)", AuthorToken(doc), YearToken(doc))
}

// ReferenceEntry renders the APA-style bibliography entry
// "Author (Year). Title. Journal.".
func ReferenceEntry(doc Document) string {
	journal := strings.TrimSpace(doc.Meta.Journal)
	if journal == "" {
		journal = DefaultJournal
	}
	return fmt.Sprintf("%s (%s). %s. %s.", AuthorToken(doc), YearToken(doc), titleToken(doc), journal)
}

// Bibliography renders a deduplicated, alphabetically sorted reference list.
// Documents are deduplicated by ID first. When two distinct documents resolve
// to the same author token, later entries (in ascending ID order) receive a
// numeric disambiguator so they remain distinguishable.
func Bibliography(docs []Document) []string {
	seen := make(map[string]bool)
	unique := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		unique = append(unique, doc)
	}

	// Stable disambiguator assignment regardless of input order.
	sort.Slice(unique, func(i, j int) bool { return unique[i].ID < unique[j].ID })

	authorCount := make(map[string]int)
	entries := make([]string, 0, len(unique))
	for _, doc := range unique {
		author := AuthorToken(doc)
		authorCount[author]++
		entry := ReferenceEntry(doc)
		if n := authorCount[author]; n > 1 {
			entry = fmt.Sprintf("%s (%d) (%s). %s. %s.",
				author, n, YearToken(doc), titleToken(doc), journalOf(doc))
		}
		entries = append(entries, entry)
	}

	sort.Strings(entries)
	return entries
}

func journalOf(doc Document) string {
	if j := strings.TrimSpace(doc.Meta.Journal); j != "" {
		return j
	}
	return DefaultJournal
}
