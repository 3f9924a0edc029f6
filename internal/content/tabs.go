package content

import (
	"context"
	"sync"
	"time"

	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

const (
	// DefaultTabSize is the number of articles per category tab.
	DefaultTabSize = 6
	// DefaultCategoryDelay spaces out the per-category queries.
	DefaultCategoryDelay = 100 * time.Millisecond
)

// PageSource lists articles; *service.ArticleService satisfies it.
type PageSource interface {
	List(ctx context.Context, filter service.ArticleFilter) (service.Page, error)
}

// CategorySource lists the categories to build tabs for.
type CategorySource interface {
	Options(ctx context.Context, lang string) ([]catalog.Option, error)
}

// CategoryTab is one home-page tab. Label is filled per request language.
type CategoryTab struct {
	Category string       `json:"category"`
	Label    string       `json:"label"`
	URLSlug  string       `json:"urlSlug"`
	Articles []db.Article `json:"articles"`
}

// TabsLoader builds the categorized tabs one category at a time.
type TabsLoader struct {
	pages      PageSource
	categories CategorySource
	perTab     int
	delay      time.Duration
	logger     *zap.Logger
}

// NewTabsLoader creates a loader. A negative delay disables the pause.
func NewTabsLoader(pages PageSource, categories CategorySource, delay time.Duration, logger *zap.Logger) *TabsLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TabsLoader{
		pages:      pages,
		categories: categories,
		perTab:     DefaultTabSize,
		delay:      delay,
		logger:     logger,
	}
}

// Load lists every category sequentially. A failing category yields an empty
// tab; only a failure to list the categories themselves, or cancellation,
// is returned.
func (l *TabsLoader) Load(ctx context.Context) ([]CategoryTab, error) {
	options, err := l.categories.Options(ctx, "hi")
	if err != nil {
		return nil, err
	}

	tabs := make([]CategoryTab, 0, len(options))
	for i, option := range options {
		if i > 0 && l.delay > 0 {
			timer := time.NewTimer(l.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		tab := CategoryTab{Category: option.Value, URLSlug: option.URLSlug, Articles: []db.Article{}}
		page, err := l.pages.List(ctx, service.ArticleFilter{Category: option.Value, PageSize: l.perTab})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn("category tab failed", zap.String("category", option.Value), zap.Error(err))
		} else {
			tab.Articles = page.Items
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// Localize returns copies of tabs labelled in lang.
func Localize(tabs []CategoryTab, lang string) []CategoryTab {
	out := make([]CategoryTab, len(tabs))
	for i, tab := range tabs {
		tab.Label = catalog.DisplayName(tab.Category, lang)
		out[i] = tab
	}
	return out
}

// TabsCache keeps the last successfully loaded tabs. A cron job refreshes it;
// requests that find it empty load synchronously.
type TabsCache struct {
	loader *TabsLoader

	mu          sync.RWMutex
	tabs        []CategoryTab
	refreshedAt time.Time
}

// NewTabsCache creates an empty cache.
func NewTabsCache(loader *TabsLoader) *TabsCache {
	return &TabsCache{loader: loader}
}

// Refresh reloads the snapshot. The previous one is kept on failure.
func (c *TabsCache) Refresh(ctx context.Context) error {
	tabs, err := c.loader.Load(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tabs = tabs
	c.refreshedAt = time.Now()
	c.mu.Unlock()
	return nil
}

// Get returns the snapshot, loading it first when the cache is cold.
func (c *TabsCache) Get(ctx context.Context) ([]CategoryTab, error) {
	c.mu.RLock()
	tabs := c.tabs
	c.mu.RUnlock()
	if tabs != nil {
		return append([]CategoryTab(nil), tabs...), nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CategoryTab(nil), c.tabs...), nil
}

// Invalidate drops the snapshot so the next Get reloads.
func (c *TabsCache) Invalidate() {
	c.mu.Lock()
	c.tabs = nil
	c.mu.Unlock()
}

// RefreshedAt reports when the snapshot was last loaded.
func (c *TabsCache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
