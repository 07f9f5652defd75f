package services

import "strings"

// Known corpus languages.
const (
	LanguageTurkish = "turkish"
	LanguageEnglish = "english"
)

// turkishChars are the characters the detection heuristic counts.
const turkishChars = "ğüşıöçĞÜŞİÖÇ"

// DetectLanguage classifies text as Turkish or English using a character
// frequency heuristic: more than 1% Turkish-specific letters means Turkish.
func DetectLanguage(text string) string {
	if text == "" {
		return LanguageEnglish
	}
	count := 0
	total := 0
	for _, r := range text {
		total++
		if strings.ContainsRune(turkishChars, r) {
			count++
		}
	}
	if total > 0 && float64(count)/float64(total) > 0.01 {
		return LanguageTurkish
	}
	return LanguageEnglish
}
