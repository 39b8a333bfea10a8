package i18n

import (
	"golang.org/x/text/language"
)

// maxAcceptLanguageLength prevents oversized Accept-Language headers from being parsed.
const maxAcceptLanguageLength = 4096

// MatchLanguage picks the supported language that best satisfies an
// Accept-Language header. It returns the first supported language when the
// header is empty, malformed or matches nothing, and "" when supported is empty.
//
// Example header: "en-US,en;q=0.9,ru;q=0.8"
// Supported: ["ru", "en"]
// Returns: "en"
func MatchLanguage(header string, supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	if header == "" {
		return supported[0]
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return supported[0]
	}

	tags := make([]language.Tag, len(supported))
	for i, lang := range supported {
		tags[i] = language.Make(lang)
	}

	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}
