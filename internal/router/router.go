// Package router wires handlers, sessions and middleware into a gin engine.
package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/config"
	"github.com/sachpatra/internal/handler"
	"github.com/sachpatra/internal/logging"
	"github.com/sachpatra/internal/metrics"
	"go.uber.org/zap"
)

const (
	sessionName   = "sachpatra_session"
	sessionMaxAge = 7 * 24 * 60 * 60
)

// Setup builds the engine serving the public API, the admin API and the
// operational endpoints.
func Setup(api *handler.API, cfg config.AppConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(logging.Requests(logger), logging.Recovery(logger))
	r.Use(cors.New(corsConfig(cfg)))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(cfg.SiteBaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/healthz", api.HealthCheck)
	r.GET("/metrics", metrics.Handler())
	r.GET("/sitemap.xml", api.Sitemap)
	if !cfg.S3Enabled() && cfg.UploadDir != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	public := r.Group("/api", api.LocaleMiddleware())
	{
		public.GET("/home", api.Home)
		public.GET("/news", api.ListNews)
		public.GET("/news/scroll", api.ScrollNews)
		public.GET("/news/featured", api.FeaturedNews)
		public.GET("/news/most-viewed", api.MostViewedNews)
		public.GET("/news/categorized", api.CategorizedNews)
		public.GET("/news/:id", api.ShowArticle)
		public.GET("/news/:id/comments", api.ListComments)
		public.POST("/news/:id/comments", api.CreateComment)
		public.GET("/tags/trending", api.TrendingTags)
		public.GET("/search", api.Search)
		public.GET("/search/suggestions", api.SearchSuggestions)
		public.GET("/categories", api.ListCategories)
		public.GET("/categories/:slug", api.ShowCategory)
		public.GET("/states", api.ListStates)
		public.GET("/breaking-news", api.ListBreakingNews)
		public.GET("/videos", api.ListVideos)
		public.GET("/gallery", api.ListGallery)
		public.GET("/ads", api.ListAds)
		public.POST("/ads/:id/impression", api.RecordAdImpression)
		public.POST("/ads/:id/click", api.RecordAdClick)
		public.POST("/contacts", api.SubmitContact)
		public.GET("/pages/:slug", api.ShowPage)
		public.GET("/settings", api.ShowSettings)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.POST("/logout", api.Logout)
		admin.POST("/register", api.Register)

		reader := admin.Group("/api", api.RequireTier(access.TierRead))
		{
			reader.GET("/me", api.Me)
			reader.PUT("/me", api.UpdateMe)
			reader.GET("/dashboard", api.AdminDashboard)
			reader.GET("/articles", api.AdminListArticles)
			reader.GET("/articles/:id", api.AdminShowArticle)
			reader.GET("/categories", api.AdminListCategories)
		}

		writer := admin.Group("/api", api.RequireTier(access.TierWrite))
		{
			writer.POST("/articles", api.AdminCreateArticle)
			writer.PUT("/articles/:id", api.AdminUpdateArticle)
			writer.PATCH("/articles/:id/status", api.AdminSetArticleStatus)
			writer.DELETE("/articles/:id", api.AdminDeleteArticle)
			writer.POST("/categories", api.AdminCreateCategory)
			writer.POST("/uploads", api.UploadImage)
		}

		adm := admin.Group("/api", api.RequireTier(access.TierAdmin))
		{
			adm.DELETE("/categories/:id", api.AdminDeleteCategory)
			adm.POST("/categories/migrate", api.AdminMigrateCategories)

			adm.GET("/ads", api.AdminListAds)
			adm.POST("/ads", api.AdminCreateAd)
			adm.PUT("/ads/:id", api.AdminUpdateAd)
			adm.DELETE("/ads/:id", api.AdminDeleteAd)

			adm.GET("/users", api.AdminListUsers)
			adm.POST("/users", api.AdminCreateUser)
			adm.PATCH("/users/:id/role", api.AdminChangeRole)
			adm.DELETE("/users/:id", api.AdminDeleteUser)

			adm.GET("/comments", api.AdminListComments)
			adm.POST("/comments/:id/approve", api.AdminApproveComment)
			adm.POST("/comments/:id/reject", api.AdminRejectComment)
			adm.DELETE("/comments/:id", api.AdminDeleteComment)

			adm.GET("/contacts", api.AdminListContacts)
			adm.GET("/contacts/stream", api.AdminStreamContacts)
			adm.PATCH("/contacts/:id", api.AdminUpdateContact)
			adm.DELETE("/contacts/:id", api.AdminDeleteContact)

			adm.GET("/breaking-news", api.AdminListBreakingNews)
			adm.POST("/breaking-news", api.AdminSaveBreakingNews)
			adm.PUT("/breaking-news/:id", api.AdminSaveBreakingNews)
			adm.DELETE("/breaking-news/:id", api.AdminDeleteBreakingNews)

			adm.GET("/videos", api.AdminListVideos)
			adm.POST("/videos", api.AdminSaveVideo)
			adm.PUT("/videos/:id", api.AdminSaveVideo)
			adm.DELETE("/videos/:id", api.AdminDeleteVideo)

			adm.GET("/gallery", api.AdminListGallery)
			adm.POST("/gallery", api.AdminCreateGalleryImage)
			adm.PUT("/gallery/:id", api.AdminUpdateGalleryImage)
			adm.DELETE("/gallery/:id", api.AdminDeleteGalleryImage)

			adm.GET("/pages", api.AdminListPages)
			adm.PUT("/pages/:slug", api.AdminUpsertPage)
			adm.DELETE("/pages/:slug", api.AdminDeletePage)

			adm.GET("/settings", api.AdminGetSettings)
			adm.PUT("/settings", api.AdminUpdateSettings)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func corsConfig(cfg config.AppConfig) cors.Config {
	origins := make([]string, 0, len(cfg.CORSAllowedOrigins))
	for _, origin := range cfg.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, strings.TrimRight(trimmed, "/"))
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
