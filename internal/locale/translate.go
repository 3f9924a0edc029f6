package locale

// Pick returns the text matching the request language, defaulting to Hindi.
func Pick(language, english, hindi string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return hindi
	}
	if hindi != "" {
		return hindi
	}
	return english
}
