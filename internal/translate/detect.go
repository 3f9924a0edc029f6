package translate

import (
	"regexp"
	"strings"

	"github.com/sachpatra/internal/locale"
)

var (
	devanagari = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
	latinPlain = regexp.MustCompile(`^[a-zA-Z0-9\s.,!?;:'"()-]+$`)
)

// InLanguage reports whether text already looks like it is written in lang:
// any Devanagari for Hindi, only ASCII letters, digits and common
// punctuation for English.
func InLanguage(text, lang string) bool {
	switch locale.NormalizeLanguage(lang) {
	case locale.LanguageHindi:
		return devanagari.MatchString(text)
	case locale.LanguageEnglish:
		return latinPlain.MatchString(strings.TrimSpace(text))
	}
	return false
}
