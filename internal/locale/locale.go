package locale

import "strings"

const (
	LanguageHindi   = "hi"
	LanguageEnglish = "en"
)

type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "hi") {
		return LanguageHindi
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// Opposite returns the other supported language; translations always run
// between the pair.
func Opposite(language string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return LanguageHindi
	}
	return LanguageEnglish
}

func LanguageFromCountryCode(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return ""
	}
	if trimmed == "IN" {
		return LanguageHindi
	}
	return LanguageEnglish
}

// LanguageFromAcceptLanguage picks the first supported tag in header order.
func LanguageFromAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		tag := strings.TrimSpace(token)
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if language := NormalizeLanguage(tag); language != "" {
			return language
		}
	}
	return ""
}

func PreferenceForLanguage(language string) Preference {
	normalized := NormalizeLanguage(language)
	if normalized == LanguageEnglish {
		return Preference{Language: LanguageEnglish, Locale: "en_IN", HTMLLang: "en-IN"}
	}
	return Preference{Language: LanguageHindi, Locale: "hi_IN", HTMLLang: "hi-IN"}
}
