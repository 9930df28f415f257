package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Conversational boilerplate the summarization model tends to echo back.
// More specific prefixes come first so "User commented:" wins over "User:".
var summaryPrefixes = []string{
	"The user comments that",
	"The user commented that",
	"The user comment says",
	"The user suggests that",
	"The user states that",
	"The user says that",
	"The user comment",
	"The commenter",
	"User commented:",
	"User comment:",
	"Summary:",
	"User:",
}

// CleanSummary strips conversational prefixes and stray punctuation the
// model leaves around an echoed prompt, then capitalizes the result.
func CleanSummary(raw string) string {
	s := strings.TrimSpace(raw)
	for _, prefix := range summaryPrefixes {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimLeft(s, ":\"' ")
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
