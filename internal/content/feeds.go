package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

const (
	defaultMostViewed = 5
	homeLatestSize    = service.DefaultPageSize
	recentMediaLimit  = 6
)

// Feeds creates the hooks behind the public pages.
type Feeds struct {
	Articles *service.ArticleService
	Ads      *service.AdService
	Breaking *service.BreakingNewsService
	Videos   *service.VideoService
	Gallery  *service.GalleryService
	Logger   *zap.Logger
	Now      func() time.Time
}

func (f *Feeds) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *Feeds) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// News lists articles matching filter.
func (f *Feeds) News(filter service.ArticleFilter) *Hook[service.Page] {
	return NewHook("news", func(ctx context.Context) (service.Page, error) {
		return f.Articles.List(ctx, filter)
	}, f.logger())
}

// Article loads one published article. A missing article is nil data, not
// an error.
func (f *Feeds) Article(id string) *Hook[*db.Article] {
	return NewHook("article", func(ctx context.Context) (*db.Article, error) {
		article, err := f.Articles.GetPublished(ctx, id)
		if errors.Is(err, service.ErrArticleNotFound) {
			return nil, nil
		}
		return article, err
	}, f.logger())
}

// Featured loads the featured strip.
func (f *Feeds) Featured() *Hook[[]db.Article] {
	return NewHook("featured news", f.Articles.Featured, f.logger())
}

// MostViewed loads the most read articles.
func (f *Feeds) MostViewed(limit int) *Hook[[]db.Article] {
	if limit <= 0 {
		limit = defaultMostViewed
	}
	return NewHook("most viewed news", func(ctx context.Context) ([]db.Article, error) {
		return f.Articles.MostViewed(ctx, limit)
	}, f.logger())
}

// TrendingTags tallies tags of recent articles.
func (f *Feeds) TrendingTags() *Hook[[]service.TagCount] {
	return NewHook("trending tags", f.Articles.TrendingTags, f.logger())
}

// RecentVideos loads the video strip.
func (f *Feeds) RecentVideos() *Hook[[]db.Video] {
	return NewHook("videos", func(ctx context.Context) ([]db.Video, error) {
		return f.Videos.Recent(ctx, recentMediaLimit)
	}, f.logger())
}

// RecentGallery loads the photo strip.
func (f *Feeds) RecentGallery() *Hook[[]db.GalleryImage] {
	return NewHook("gallery", f.Gallery.Recent, f.logger())
}

// BreakingNews loads the ticker.
func (f *Feeds) BreakingNews() *Hook[[]db.BreakingNews] {
	return NewHook("breaking news", f.Breaking.Active, f.logger())
}

// AdSlot loads eligible ads for a slot.
func (f *Feeds) AdSlot(position, category string, max int) *Hook[[]db.Advertisement] {
	return NewHook("advertisements", func(ctx context.Context) ([]db.Advertisement, error) {
		return f.Ads.ForSlot(ctx, position, category, max, f.now())
	}, f.logger())
}

// Home is the composite landing-page payload. Errors maps a section to the
// message of its failed load; other sections are still filled.
type Home struct {
	Featured     []db.Article       `json:"featured"`
	Latest       []db.Article       `json:"latest"`
	MostViewed   []db.Article       `json:"mostViewed"`
	BreakingNews []db.BreakingNews  `json:"breakingNews"`
	TrendingTags []service.TagCount `json:"trendingTags"`
	Videos       []db.Video         `json:"videos"`
	Gallery      []db.GalleryImage  `json:"gallery"`
	Errors       map[string]string  `json:"errors,omitempty"`
}

// Home loads the independent sections concurrently.
func (f *Feeds) Home(ctx context.Context) Home {
	home := Home{
		Featured:     []db.Article{},
		Latest:       []db.Article{},
		MostViewed:   []db.Article{},
		BreakingNews: []db.BreakingNews{},
		TrendingTags: []service.TagCount{},
		Videos:       []db.Video{},
		Gallery:      []db.GalleryImage{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	fail := func(section, message string) {
		mu.Lock()
		defer mu.Unlock()
		if home.Errors == nil {
			home.Errors = map[string]string{}
		}
		home.Errors[section] = message
	}
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		if st := f.Featured().Load(ctx); st.Failed() {
			fail("featured", st.Error)
		} else if st.Data != nil {
			home.Featured = st.Data
		}
	})
	run(func() {
		st := f.News(service.ArticleFilter{PageSize: homeLatestSize}).Load(ctx)
		if st.Failed() {
			fail("latest", st.Error)
		} else {
			home.Latest = st.Data.Items
		}
	})
	run(func() {
		if st := f.MostViewed(defaultMostViewed).Load(ctx); st.Failed() {
			fail("mostViewed", st.Error)
		} else if st.Data != nil {
			home.MostViewed = st.Data
		}
	})
	run(func() {
		if st := f.BreakingNews().Load(ctx); st.Failed() {
			fail("breakingNews", st.Error)
		} else if st.Data != nil {
			home.BreakingNews = st.Data
		}
	})
	run(func() {
		if st := f.TrendingTags().Load(ctx); st.Failed() {
			fail("trendingTags", st.Error)
		} else if st.Data != nil {
			home.TrendingTags = st.Data
		}
	})
	run(func() {
		if st := f.RecentVideos().Load(ctx); st.Failed() {
			fail("videos", st.Error)
		} else if st.Data != nil {
			home.Videos = st.Data
		}
	})
	run(func() {
		if st := f.RecentGallery().Load(ctx); st.Failed() {
			fail("gallery", st.Error)
		} else if st.Data != nil {
			home.Gallery = st.Data
		}
	})

	wg.Wait()
	return home
}
