package content

import (
	"context"
	"sync"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
)

// ObserverHints tell the client when to request the next page.
type ObserverHints struct {
	Threshold  float64 `json:"threshold"`
	RootMargin string  `json:"rootMargin"`
}

// DefaultObserverHints fire slightly before the sentinel becomes visible.
var DefaultObserverHints = ObserverHints{Threshold: 0.1, RootMargin: "100px"}

// ScrollPage is one increment of an infinite-scroll listing.
type ScrollPage struct {
	Items      []db.Article  `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore"`
	Observer   ObserverHints `json:"observer"`
}

// Scroller accumulates articles page by page, continuing from the cursor
// returned with each page.
type Scroller struct {
	source PageSource

	mu       sync.Mutex
	filter   service.ArticleFilter
	articles []db.Article
	batch    []db.Article
	cursor   string
	hasMore  bool
	loading  bool
	gen      uint64
}

// NewScroller starts at filter.Cursor (empty for the first page).
func NewScroller(source PageSource, filter service.ArticleFilter) *Scroller {
	return &Scroller{
		source:  source,
		filter:  filter,
		cursor:  filter.Cursor,
		hasMore: true,
	}
}

// LoadMore fetches the next page. It does nothing while a load is running
// or when there is nothing more to load.
func (s *Scroller) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	gen := s.gen
	filter := s.filter
	filter.Page = 1
	filter.Cursor = s.cursor
	s.mu.Unlock()

	page, err := s.source.List(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	s.loading = false
	if err != nil {
		return err
	}
	s.batch = page.Items
	s.articles = append(s.articles, page.Items...)
	s.cursor = page.NextCursor
	s.hasMore = page.HasMore
	return nil
}

// SetFilter discards accumulated state and loads the first page of filter.
func (s *Scroller) SetFilter(ctx context.Context, filter service.ArticleFilter) error {
	s.mu.Lock()
	s.gen++
	s.filter = filter
	s.filter.Cursor = ""
	s.articles = nil
	s.batch = nil
	s.cursor = ""
	s.hasMore = true
	s.loading = false
	s.mu.Unlock()
	return s.LoadMore(ctx)
}

// Drain loads until the source is exhausted or limit articles are held.
// A limit of zero means no limit.
func (s *Scroller) Drain(ctx context.Context, limit int) ([]db.Article, error) {
	for s.HasMore() {
		if limit > 0 && len(s.Articles()) >= limit {
			break
		}
		if err := s.LoadMore(ctx); err != nil {
			return s.Articles(), err
		}
	}
	articles := s.Articles()
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// Articles returns everything loaded so far.
func (s *Scroller) Articles() []db.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]db.Article(nil), s.articles...)
}

// HasMore reports whether another page can be requested.
func (s *Scroller) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loading reports whether a page is being fetched.
func (s *Scroller) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Page describes the most recent increment for the client.
func (s *Scroller) Page() ScrollPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.batch
	if items == nil {
		items = []db.Article{}
	}
	page := ScrollPage{Items: items, HasMore: s.hasMore, Observer: DefaultObserverHints}
	if s.hasMore {
		page.NextCursor = s.cursor
	}
	return page
}
