package translate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	markdownImagePattern = regexp.MustCompile(`!\[[^\]]*]\((<[^>]+>|[^)\s]+)([^)]*)\)`)
	htmlImagePattern     = regexp.MustCompile(`(?i)<img\s[^>]*src="([^"]+)"`)
)

// urlPlaceholders swaps image URLs for short tokens before text goes to a
// model and puts them back afterwards, so URLs are never "translated".
type urlPlaceholders struct {
	originals map[string]string
}

func protectImageURLs(input string) (string, *urlPlaceholders) {
	p := &urlPlaceholders{}
	if !markdownImagePattern.MatchString(input) && !htmlImagePattern.MatchString(input) {
		return input, p
	}
	p.originals = make(map[string]string)
	index := 1

	next := func(original string) string {
		token := fmt.Sprintf("image://asset-%d", index)
		index++
		p.originals[token] = original
		return token
	}

	out := markdownImagePattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := markdownImagePattern.FindStringSubmatch(match)
		original := strings.TrimSuffix(strings.TrimPrefix(groups[1], "<"), ">")
		return strings.Replace(match, original, next(original), 1)
	})
	out = htmlImagePattern.ReplaceAllStringFunc(out, func(match string) string {
		groups := htmlImagePattern.FindStringSubmatch(match)
		if strings.HasPrefix(groups[1], "image://asset-") {
			return match
		}
		return strings.Replace(match, groups[1], next(groups[1]), 1)
	})
	return out, p
}

func (p *urlPlaceholders) Count() int {
	if p == nil {
		return 0
	}
	return len(p.originals)
}

// Restore puts the original URLs back. Models sometimes wrap a token in angle
// brackets; those are unwrapped too.
func (p *urlPlaceholders) Restore(input string) string {
	if p.Count() == 0 {
		return input
	}
	output := input
	// longest token first so asset-1 never eats into asset-10
	for i := len(p.originals); i >= 1; i-- {
		token := fmt.Sprintf("image://asset-%d", i)
		original, ok := p.originals[token]
		if !ok {
			continue
		}
		output = strings.ReplaceAll(output, "<"+token+">", original)
		output = strings.ReplaceAll(output, token, original)
	}
	return output
}
