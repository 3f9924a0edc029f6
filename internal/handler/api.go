package handler

import (
	"context"
	"time"

	"github.com/sachpatra/internal/config"
	"github.com/sachpatra/internal/content"
	"github.com/sachpatra/internal/locale"
	"github.com/sachpatra/internal/service"
	"github.com/sachpatra/internal/storage"
	"github.com/sachpatra/internal/translate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators of the handlers.
type Deps struct {
	DB         *gorm.DB
	Config     config.AppConfig
	Logger     *zap.Logger
	Translator *translate.Layer
	Store      storage.ObjectStore
	Now        func() time.Time
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db     *gorm.DB
	cfg    config.AppConfig
	logger *zap.Logger
	now    func() time.Time

	articles   *service.ArticleService
	analytics  *service.AnalyticsService
	ads        *service.AdService
	users      *service.UserService
	comments   *service.CommentService
	contacts   *service.ContactService
	breaking   *service.BreakingNewsService
	videos     *service.VideoService
	gallery    *service.GalleryService
	categories *service.CategoryService
	pages      *service.PageService
	system     *service.SystemSettingService
	search     *service.SearchService

	feeds      *content.Feeds
	tabs       *content.TabsCache
	translator *translate.Layer
	store      storage.ObjectStore
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Deps) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	gdb := deps.DB
	loc := deps.Config.Location()

	articles := service.NewArticleService(gdb)
	adService := service.NewAdService(gdb, loc)
	breaking := service.NewBreakingNewsService(gdb)
	videos := service.NewVideoService(gdb)
	gallery := service.NewGalleryService(gdb)
	categories := service.NewCategoryService(gdb)

	delay := deps.Config.CategoryFetchDelay
	if delay == 0 {
		delay = content.DefaultCategoryDelay
	}

	return &API{
		db:         gdb,
		cfg:        deps.Config,
		logger:     logger,
		now:        now,
		articles:   articles,
		analytics:  service.NewAnalyticsService(gdb),
		ads:        adService,
		users:      service.NewUserService(gdb),
		comments:   service.NewCommentService(gdb, deps.Config.CommentsAutoApprove),
		contacts:   service.NewContactService(gdb),
		breaking:   breaking,
		videos:     videos,
		gallery:    gallery,
		categories: categories,
		pages:      service.NewPageService(gdb),
		system:     service.NewSystemSettingService(gdb, locale.LanguageHindi),
		search:     service.NewSearchService(articles),
		feeds: &content.Feeds{
			Articles: articles,
			Ads:      adService,
			Breaking: breaking,
			Videos:   videos,
			Gallery:  gallery,
			Logger:   logger,
			Now:      now,
		},
		tabs:       content.NewTabsCache(content.NewTabsLoader(articles, categories, delay, logger)),
		translator: deps.Translator,
		store:      deps.Store,
	}
}

// Articles exposes the article service for scheduled jobs.
func (a *API) Articles() *service.ArticleService {
	return a.articles
}

// Tabs exposes the categorized-tabs cache for scheduled refreshes.
func (a *API) Tabs() *content.TabsCache {
	return a.tabs
}

// Users exposes the user service for bootstrap tasks.
func (a *API) Users() *service.UserService {
	return a.users
}

// EnsureSuperRoot promotes or creates the configured bootstrap admin.
func (a *API) EnsureSuperRoot(ctx context.Context) error {
	if a.cfg.SuperRootEmail == "" || a.cfg.SuperRootPassword == "" {
		return nil
	}
	_, err := a.users.EnsureAdmin(ctx, a.cfg.SuperRootEmail, a.cfg.SuperRootPassword)
	return err
}
