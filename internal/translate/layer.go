package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/locale"
	"github.com/sachpatra/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds the number of cached (article, language) entries.
const DefaultCacheSize = 2048

// DefaultFlightTimeout bounds one shared translation once it is detached
// from the request that started it.
const DefaultFlightTimeout = 30 * time.Second

// translation holds the translated text fields of one article. Counters and
// other columns always come from the caller's copy.
type translation struct {
	Title   string
	Excerpt string
	Content string
}

func (t translation) apply(a *db.Article) *db.Article {
	out := a.Clone()
	out.Title = t.Title
	out.Excerpt = t.Excerpt
	out.Content = t.Content
	return out
}

type cacheEntry struct {
	text      translation
	updatedAt time.Time
}

// Layer memoizes translated article text in a bounded LRU keyed by article
// id and language. Entries are dropped when the article's UpdatedAt changes.
type Layer struct {
	svc     *Service
	cache   *lru.Cache
	group   singleflight.Group
	logger  *zap.Logger
	timeout time.Duration

	mu       sync.Mutex
	inflight map[string]int
}

// NewLayer creates a layer holding at most size entries.
func NewLayer(svc *Service, size int, logger *zap.Logger) (*Layer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layer{
		svc:      svc,
		cache:    cache,
		logger:   logger,
		timeout:  DefaultFlightTimeout,
		inflight: make(map[string]int),
	}, nil
}

// SetTimeout changes the bound on one shared article translation.
func (l *Layer) SetTimeout(d time.Duration) {
	if d > 0 {
		l.timeout = d
	}
}

// CacheKey is the memoization key of one article in one language.
func CacheKey(id, lang string) string {
	return id + "_" + lang
}

// ListKey identifies a list by the sorted set of its ids, so logically equal
// lists share in-flight work regardless of order.
func ListKey(list []db.Article, lang string) string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, ",")))
	return hex.EncodeToString(sum[:8]) + "_" + lang
}

// Article returns a in lang. nil yields nil. Title, excerpt and content come
// from the cache when present and are translated from the other language
// otherwise; every other field is taken from a. Results with a failed field
// are returned but not cached.
func (l *Layer) Article(ctx context.Context, a *db.Article, lang string) *db.Article {
	if a == nil {
		return nil
	}
	lang = locale.NormalizeLanguage(lang)
	if lang == "" {
		return a
	}
	return l.text(ctx, a, lang).apply(a)
}

// Articles translates each article sequentially and returns the full list
// once every item has resolved.
func (l *Layer) Articles(ctx context.Context, list []db.Article, lang string) []db.Article {
	if len(list) == 0 {
		return []db.Article{}
	}
	lang = locale.NormalizeLanguage(lang)
	if lang == "" {
		return list
	}
	input := make([]db.Article, len(list))
	for i := range list {
		input[i] = *list[i].Clone()
	}

	// Shared work outlives the leader's request.
	shared := context.WithoutCancel(ctx)
	value, _, _ := l.group.Do("list:"+ListKey(input, lang), func() (interface{}, error) {
		out := make(map[string]translation, len(input))
		for i := range input {
			out[input[i].ID] = l.text(shared, &input[i], lang)
		}
		return out, nil
	})
	byID, _ := value.(map[string]translation)

	result := make([]db.Article, len(input))
	for i := range input {
		if text, ok := byID[input[i].ID]; ok {
			result[i] = *text.apply(&input[i])
			continue
		}
		result[i] = input[i]
	}
	return result
}

// text resolves the translated fields of a, from the cache or a shared
// translation run.
func (l *Layer) text(ctx context.Context, a *db.Article, lang string) translation {
	key := CacheKey(a.ID, lang)
	if cached, ok := l.lookup(key, a.UpdatedAt); ok {
		metrics.TranslationCache.WithLabelValues("hit").Inc()
		return cached
	}
	metrics.TranslationCache.WithLabelValues("miss").Inc()

	snapshot := a.Clone()
	value, _, _ := l.group.Do(key, func() (interface{}, error) {
		if cached, ok := l.lookup(key, snapshot.UpdatedAt); ok {
			return cached, nil
		}
		l.begin(key)
		defer l.end(key)
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.translate(flightCtx, snapshot, lang, key), nil
	})
	text, ok := value.(translation)
	if !ok {
		return translation{Title: a.Title, Excerpt: a.Excerpt, Content: a.Content}
	}
	return text
}

// IsTranslating reports whether the article is being translated right now.
func (l *Layer) IsTranslating(id, lang string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight[CacheKey(id, locale.NormalizeLanguage(lang))] > 0
}

// Invalidate drops every cached language of an article.
func (l *Layer) Invalidate(id string) {
	for _, lang := range []string{locale.LanguageHindi, locale.LanguageEnglish} {
		l.cache.Remove(CacheKey(id, lang))
	}
}

// Len returns the number of cached entries.
func (l *Layer) Len() int {
	return l.cache.Len()
}

func (l *Layer) lookup(key string, updatedAt time.Time) (translation, bool) {
	raw, ok := l.cache.Get(key)
	if !ok {
		return translation{}, false
	}
	entry := raw.(cacheEntry)
	if !entry.updatedAt.Equal(updatedAt) {
		l.cache.Remove(key)
		return translation{}, false
	}
	return entry.text, true
}

func (l *Layer) translate(ctx context.Context, a *db.Article, lang, key string) translation {
	source := locale.Opposite(lang)
	out := translation{Title: a.Title, Excerpt: a.Excerpt, Content: a.Content}
	failed := false

	for _, field := range []*string{&out.Title, &out.Excerpt, &out.Content} {
		res := l.svc.Text(ctx, *field, lang, source)
		*field = res.Text
		if res.Failed() {
			failed = true
		}
		if res.Source == SourceDictionary {
			metrics.TranslationCache.WithLabelValues("fallback").Inc()
		}
	}

	if failed {
		l.logger.Debug("translation incomplete, not caching", zap.String("article_id", a.ID), zap.String("lang", lang))
		return out
	}
	l.cache.Add(key, cacheEntry{text: out, updatedAt: a.UpdatedAt})
	return out
}

func (l *Layer) begin(key string) {
	l.mu.Lock()
	l.inflight[key]++
	l.mu.Unlock()
}

func (l *Layer) end(key string) {
	l.mu.Lock()
	if l.inflight[key] <= 1 {
		delete(l.inflight, key)
	} else {
		l.inflight[key]--
	}
	l.mu.Unlock()
}
