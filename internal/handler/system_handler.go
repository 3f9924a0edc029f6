package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/content"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

const sitemapArticleLimit = 1000

// HealthCheck reports database reachability for load balancers.
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "database handle unavailable",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
	})
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists category pages and published articles.
func (a *API) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	base := a.cfg.SiteBaseURL

	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/"})
	options, err := a.categories.Options(ctx, "en")
	if err != nil {
		c.Error(err)
	}
	for _, option := range options {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + "/category/" + option.URLSlug})
	}
	for _, state := range catalog.StateOptions("en") {
		set.URLs = append(set.URLs, sitemapURL{Loc: base + "/category/national/" + state.URLSlug})
	}

	scroller := content.NewScroller(a.articles, service.ArticleFilter{PageSize: 50})
	articles, err := scroller.Drain(ctx, sitemapArticleLimit)
	if err != nil {
		a.logger.Warn("sitemap truncated", zap.Int("articles", len(articles)), zap.Error(err))
	}
	for _, article := range articles {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + "/news/" + article.ID,
			LastMod: article.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.Header("Cache-Control", "public, max-age=900")
	c.XML(http.StatusOK, set)
}
