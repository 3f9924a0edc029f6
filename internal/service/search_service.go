package service

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sachpatra/internal/db"
)

const (
	searchWindow          = 100
	defaultSearchResults  = 10
	defaultSuggestions    = 5
	suggestionSearchLimit = 20
	minSuggestionRunes    = 3
)

// Relevance weights.
const (
	scoreTitle       = 10
	scoreTitlePrefix = 5
	scoreExcerpt     = 5
	scoreContent     = 3
	scoreCategory    = 2
	scoreTag         = 4
)

// SearchResult is one scored hit.
type SearchResult struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Excerpt        string `json:"excerpt"`
	Category       string `json:"category"`
	ImageURL       string `json:"imageUrl"`
	PublishedAt    string `json:"publishedAt"`
	RelevanceScore int    `json:"relevanceScore"`
}

// SearchService scores the newest published articles against a term.
type SearchService struct {
	articles *ArticleService
}

// NewSearchService creates a SearchService.
func NewSearchService(articles *ArticleService) *SearchService {
	return &SearchService{articles: articles}
}

// Search returns up to max results ordered by relevance; equal scores keep
// recency order.
func (s *SearchService) Search(ctx context.Context, term string, max int) ([]SearchResult, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []SearchResult{}, nil
	}
	max = normalizePerPage(max, defaultSearchResults)

	candidates, err := s.articles.Recent(ctx, searchWindow)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, a := range candidates {
		score := relevance(a, needle)
		if score == 0 {
			continue
		}
		results = append(results, SearchResult{
			ID:             a.ID,
			Title:          a.Title,
			Excerpt:        a.Excerpt,
			Category:       a.Category,
			ImageURL:       a.ImageURL,
			PublishedAt:    a.PublishedAt,
			RelevanceScore: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// Suggestions extracts title words containing the partial term.
func (s *SearchService) Suggestions(ctx context.Context, partial string, max int) ([]string, error) {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if utf8.RuneCountInString(needle) < 2 {
		return []string{}, nil
	}
	max = normalizePerPage(max, defaultSuggestions)

	results, err := s.Search(ctx, needle, suggestionSearchLimit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, max)
	seen := map[string]struct{}{}
	for _, r := range results {
		for _, word := range strings.Fields(r.Title) {
			clean := strings.ToLower(strings.Map(keepWordRune, word))
			if utf8.RuneCountInString(clean) < minSuggestionRunes || !strings.Contains(clean, needle) {
				continue
			}
			if _, dup := seen[clean]; dup {
				continue
			}
			seen[clean] = struct{}{}
			suggestions = append(suggestions, clean)
			if len(suggestions) == max {
				return suggestions, nil
			}
		}
	}
	return suggestions, nil
}

func relevance(a db.Article, needle string) int {
	score := 0
	title := strings.ToLower(a.Title)
	if strings.Contains(title, needle) {
		score += scoreTitle
		if strings.HasPrefix(title, needle) {
			score += scoreTitlePrefix
		}
	}
	if strings.Contains(strings.ToLower(a.Excerpt), needle) {
		score += scoreExcerpt
	}
	if strings.Contains(strings.ToLower(a.Content), needle) {
		score += scoreContent
	}
	if strings.Contains(strings.ToLower(a.Category), needle) {
		score += scoreCategory
	}
	for _, tag := range a.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			score += scoreTag
		}
	}
	return score
}

// keepWordRune keeps Devanagari and ASCII letters.
func keepWordRune(r rune) rune {
	if unicode.In(r, unicode.Devanagari) || (r < utf8.RuneSelf && unicode.IsLetter(r)) {
		return r
	}
	return -1
}
