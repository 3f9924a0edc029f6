// Package catalog resolves categories and Indian states between URL slugs,
// canonical keys and bilingual display labels.
package catalog

import (
	"regexp"
	"strings"

	"github.com/sachpatra/internal/locale"
)

// Canonical category keys. Articles always store one of these (or a custom
// category name) regardless of the UI language.
const (
	Latest        = "latest"
	National      = "national"
	International = "international"
	Politics      = "politics"
	Sports        = "sports"
	Entertainment = "entertainment"
	Technology    = "technology"
	Business      = "business"
	Education     = "education"
	Agriculture   = "agriculture"
	Special       = "special"
)

type category struct {
	key     string
	slug    string
	labelHi string
	labelEn string
}

// builtins is the single source for slugs, keys and labels; every lookup
// table below is derived from it.
var builtins = []category{
	{key: Latest, slug: "latest", labelHi: "ताज़ा खबरें", labelEn: "Latest News"},
	{key: National, slug: "national", labelHi: "देश", labelEn: "National"},
	{key: International, slug: "international", labelHi: "विदेश", labelEn: "International"},
	{key: Politics, slug: "politics", labelHi: "राजनीति", labelEn: "Politics"},
	{key: Sports, slug: "sports", labelHi: "खेल", labelEn: "Sports"},
	{key: Entertainment, slug: "entertainment", labelHi: "मनोरंजन", labelEn: "Entertainment"},
	{key: Technology, slug: "technology", labelHi: "तकनीक", labelEn: "Technology"},
	{key: Business, slug: "business", labelHi: "व्यापार", labelEn: "Business"},
	{key: Education, slug: "education", labelHi: "शिक्षा", labelEn: "Education"},
	{key: Agriculture, slug: "agriculture", labelHi: "कृषि", labelEn: "Agriculture"},
	{key: Special, slug: "special-reports", labelHi: "विशेष", labelEn: "Special Reports"},
}

var (
	bySlug  = make(map[string]category, len(builtins))
	byKey   = make(map[string]category, len(builtins))
	byLabel = make(map[string]category, len(builtins)*2)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

func init() {
	for _, c := range builtins {
		bySlug[c.slug] = c
		byKey[c.key] = c
		byLabel[c.labelHi] = c
		byLabel[strings.ToLower(c.labelEn)] = c
	}
}

// Option is one entry of a category dropdown or navigation list.
type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	URLSlug string `json:"urlSlug"`
}

// SlugToCategory maps a URL slug to its canonical key. "latest" (and an empty
// slug) yields "" which callers treat as "no category filter". Unknown slugs
// are custom categories with dashes turned back into spaces.
func SlugToCategory(slug string) string {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" || normalized == Latest {
		return ""
	}
	if c, ok := bySlug[normalized]; ok {
		return c.key
	}
	return strings.ReplaceAll(normalized, "-", " ")
}

// CategoryToSlug maps a canonical key or a localized label to a URL slug.
// Custom categories are lowercased with whitespace runs replaced by dashes.
func CategoryToSlug(category string) string {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return Latest
	}
	if c, ok := byKey[strings.ToLower(trimmed)]; ok {
		return c.slug
	}
	if c, ok := lookupLabel(trimmed); ok {
		return c.slug
	}
	return whitespaceRun.ReplaceAllString(strings.ToLower(trimmed), "-")
}

// Canonical resolves any accepted category representation (key, slug, Hindi
// or English label, custom name) to the value stored on articles. The
// "latest" sentinel resolves to "". Only lowercase dashed input is read as a
// custom slug; mixed-case names such as "E-Sports" are kept.
func Canonical(category string) string {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return ""
	}
	lowered := strings.ToLower(trimmed)
	if lowered == Latest {
		return ""
	}
	if c, ok := byKey[lowered]; ok {
		return c.key
	}
	if c, ok := lookupLabel(trimmed); ok {
		if c.key == Latest {
			return ""
		}
		return c.key
	}
	if _, ok := bySlug[lowered]; ok {
		return SlugToCategory(lowered)
	}
	if trimmed == lowered && strings.Contains(trimmed, "-") && !strings.Contains(trimmed, " ") {
		return SlugToCategory(trimmed)
	}
	return trimmed
}

// SameCategory reports whether a and b name the same category once both are
// reduced to their URL slug, so "E-Sports", "e sports" and "e-sports" agree.
func SameCategory(a, b string) bool {
	return CategoryToSlug(Canonical(a)) == CategoryToSlug(Canonical(b))
}

// DisplayName returns the label of a key or slug in the given language.
// Unknown values (custom categories) pass through unchanged.
func DisplayName(category, language string) string {
	trimmed := strings.TrimSpace(category)
	c, ok := bySlug[strings.ToLower(trimmed)]
	if !ok {
		c, ok = byKey[strings.ToLower(trimmed)]
	}
	if !ok {
		return category
	}
	return locale.Pick(language, c.labelEn, c.labelHi)
}

// AllCategories lists built-in categories (without the latest sentinel)
// followed by the supplied custom categories.
func AllCategories(language string, custom []string) []Option {
	options := make([]Option, 0, len(builtins)-1+len(custom))
	for _, c := range builtins {
		if c.key == Latest {
			continue
		}
		options = append(options, Option{
			Value:   c.key,
			Label:   DisplayName(c.key, language),
			URLSlug: c.slug,
		})
	}
	for _, name := range custom {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		options = append(options, Option{
			Value:   trimmed,
			Label:   trimmed,
			URLSlug: CategoryToSlug(trimmed),
		})
	}
	return options
}

// Keys returns the built-in canonical keys, latest excluded, in display order.
func Keys() []string {
	keys := make([]string, 0, len(builtins)-1)
	for _, c := range builtins {
		if c.key != Latest {
			keys = append(keys, c.key)
		}
	}
	return keys
}

// IsBuiltin reports whether name is one of the fixed canonical keys.
func IsBuiltin(name string) bool {
	_, ok := byKey[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsCustom reports whether name is a staff-defined category rather than a
// built-in key. Blank names are neither.
func IsCustom(name string) bool {
	return strings.TrimSpace(name) != "" && !IsBuiltin(name)
}

// IsStateBased reports whether articles of the category carry state filtering.
func IsStateBased(category string) bool {
	return Canonical(category) == National
}

// LegacyToCanonical maps category values stored by older releases as Hindi
// labels to canonical keys. ok is false when the value needs no rewrite.
func LegacyToCanonical(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if _, builtin := byKey[trimmed]; builtin {
		return trimmed, false
	}
	c, found := lookupLabel(trimmed)
	if !found {
		return trimmed, false
	}
	return c.key, true
}

func lookupLabel(label string) (category, bool) {
	if c, ok := byLabel[label]; ok {
		return c, true
	}
	c, ok := byLabel[strings.ToLower(label)]
	return c, ok
}
