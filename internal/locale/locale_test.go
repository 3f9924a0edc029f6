package locale

import "testing"

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "hi", want: LanguageHindi},
		{input: "hi-IN", want: LanguageHindi},
		{input: "HI_in", want: LanguageHindi},
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "fr", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeLanguage(tc.input); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLanguageFromCountryCode(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "IN", want: LanguageHindi},
		{input: "in", want: LanguageHindi},
		{input: "US", want: LanguageEnglish},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := LanguageFromCountryCode(tc.input); got != tc.want {
			t.Fatalf("LanguageFromCountryCode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLanguageFromAcceptLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "hi-IN,hi;q=0.9,en;q=0.8", want: LanguageHindi},
		{input: "en-US,en;q=0.9", want: LanguageEnglish},
		{input: "fr-FR,fr;q=0.9,hi;q=0.5", want: LanguageHindi},
		{input: "fr-FR,fr;q=0.9", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := LanguageFromAcceptLanguage(tc.input); got != tc.want {
			t.Fatalf("LanguageFromAcceptLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPreferenceForLanguage(t *testing.T) {
	pref := PreferenceForLanguage("en")
	if pref.Language != LanguageEnglish {
		t.Fatalf("expected language %q, got %q", LanguageEnglish, pref.Language)
	}
	if pref.HTMLLang != "en-IN" {
		t.Fatalf("expected html lang en-IN, got %q", pref.HTMLLang)
	}

	fallback := PreferenceForLanguage("")
	if fallback.Language != LanguageHindi {
		t.Fatalf("expected fallback language %q, got %q", LanguageHindi, fallback.Language)
	}
}

func TestOpposite(t *testing.T) {
	if got := Opposite("hi"); got != LanguageEnglish {
		t.Fatalf("Opposite(hi) = %q", got)
	}
	if got := Opposite("en"); got != LanguageHindi {
		t.Fatalf("Opposite(en) = %q", got)
	}
}

func TestPick(t *testing.T) {
	if got := Pick("en", "english", "hindi"); got != "english" {
		t.Fatalf("Pick(en) = %q, want %q", got, "english")
	}
	if got := Pick("hi", "english", "hindi"); got != "hindi" {
		t.Fatalf("Pick(hi) = %q, want %q", got, "hindi")
	}
	if got := Pick("fr", "english", ""); got != "english" {
		t.Fatalf("Pick(fr) = %q, want %q", got, "english")
	}
}
