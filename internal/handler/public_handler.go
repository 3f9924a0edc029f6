package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/content"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/render"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

const (
	visitorCookieName   = "sp_vid"
	visitorCookieMaxAge = 365 * 24 * 60 * 60
)

type articleDetail struct {
	*db.Article
	ContentHTML    string        `json:"contentHtml"`
	CategoryLabel  string        `json:"categoryLabel"`
	StateName      string        `json:"stateName,omitempty"`
	Video          *render.Embed `json:"video,omitempty"`
	UniqueVisitors int64         `json:"uniqueVisitors"`
}

type videoPayload struct {
	db.Video
	Platform string `json:"platform"`
	EmbedURL string `json:"embedUrl"`
}

// Home serves the landing page sections in one payload.
func (a *API) Home(c *gin.Context) {
	home := a.feeds.Home(c.Request.Context())
	home.Featured = a.localizeList(c, home.Featured)
	home.Latest = a.localizeList(c, home.Latest)
	home.MostViewed = a.localizeList(c, home.MostViewed)
	c.JSON(http.StatusOK, home)
}

// ListNews returns one page of articles filtered by category and state.
func (a *API) ListNews(c *gin.Context) {
	filter, ok := newsFilter(c)
	if !ok {
		return
	}
	state := a.feeds.News(filter).Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	page := state.Data
	page.Items = a.localizeList(c, page.Items)
	c.JSON(http.StatusOK, page)
}

// ScrollNews returns the next infinite-scroll increment after ?cursor.
func (a *API) ScrollNews(c *gin.Context) {
	filter, ok := newsFilter(c)
	if !ok {
		return
	}
	scroller := content.NewScroller(a.articles, filter)
	if err := scroller.LoadMore(c.Request.Context()); err != nil {
		a.logger.Warn("scroll load failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "failed to load news")
		return
	}
	page := scroller.Page()
	page.Items = a.localizeList(c, page.Items)
	c.JSON(http.StatusOK, page)
}

func newsFilter(c *gin.Context) (service.ArticleFilter, bool) {
	cursor := strings.TrimSpace(c.Query("cursor"))
	if _, err := db.DecodeCursor(cursor); err != nil {
		respondError(c, http.StatusBadRequest, "invalid cursor")
		return service.ArticleFilter{}, false
	}
	return service.ArticleFilter{
		Category: catalog.SlugToCategory(c.Query("category")),
		State:    c.Query("state"),
		Page:     parsePositiveInt(c.Query("page"), 1),
		PageSize: parsePerPage(c.Query("pageSize"), service.DefaultPageSize),
		Cursor:   cursor,
	}, true
}

// FeaturedNews serves the featured strip.
func (a *API) FeaturedNews(c *gin.Context) {
	state := a.feeds.Featured().Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": a.localizeList(c, nonNil(state.Data))})
}

// MostViewedNews serves the most read articles.
func (a *API) MostViewedNews(c *gin.Context) {
	state := a.feeds.MostViewed(parsePerPage(c.Query("limit"), 5)).Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": a.localizeList(c, nonNil(state.Data))})
}

// CategorizedNews serves one tab per category from the warm cache.
func (a *API) CategorizedNews(c *gin.Context) {
	tabs, err := a.tabs.Get(c.Request.Context())
	if err != nil {
		a.logger.Warn("categorized tabs failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "failed to load categories")
		return
	}
	lang := a.requestLanguage(c)
	tabs = content.Localize(tabs, lang)
	for i := range tabs {
		tabs[i].Articles = a.localizeList(c, tabs[i].Articles)
	}
	c.JSON(http.StatusOK, gin.H{"tabs": tabs})
}

// ShowArticle serves a published article, rendered, and records the view.
func (a *API) ShowArticle(c *gin.Context) {
	ctx := c.Request.Context()
	state := a.feeds.Article(c.Param("id")).Load(ctx)
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	if state.Data == nil {
		respondError(c, http.StatusNotFound, "article not found")
		return
	}
	article := state.Data

	visitorID := a.ensureVisitorID(c)
	if _, err := a.analytics.RecordView(ctx, article.ID, visitorID, a.now().UTC()); err != nil {
		c.Error(err)
	} else {
		article.Views++
	}
	unique, err := a.analytics.UniqueVisitors(ctx, article.ID)
	if err != nil {
		c.Error(err)
	}

	lang := a.requestLanguage(c)
	localized := a.localizeOne(c, article)
	html, err := render.HTML(localized.Content)
	if err != nil {
		a.logger.Warn("render article failed", zap.String("id", article.ID), zap.Error(err))
	}

	detail := articleDetail{
		Article:        localized,
		ContentHTML:    html,
		CategoryLabel:  catalog.DisplayName(localized.Category, lang),
		UniqueVisitors: unique,
	}
	if localized.State != "" {
		detail.StateName = catalog.StateDisplayName(localized.State, lang)
	}
	if embed, ok := render.ResolveEmbed(localized.VideoURL); ok {
		detail.Video = &embed
	}
	c.JSON(http.StatusOK, detail)
}

// TrendingTags serves the tag cloud.
func (a *API) TrendingTags(c *gin.Context) {
	state := a.feeds.TrendingTags().Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	tags := state.Data
	if tags == nil {
		tags = []service.TagCount{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Search scores recent articles against ?q.
func (a *API) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	results, err := a.search.Search(c.Request.Context(), query, parsePerPage(c.Query("limit"), 10))
	if err != nil {
		a.logger.Warn("search failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "search is unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// SearchSuggestions completes a partial query from article titles.
func (a *API) SearchSuggestions(c *gin.Context) {
	suggestions, err := a.search.Suggestions(c.Request.Context(), c.Query("q"), parsePerPage(c.Query("limit"), 5))
	if err != nil {
		a.logger.Warn("suggestions failed", zap.Error(err))
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ListCategories serves built-in and custom categories in the request language.
func (a *API) ListCategories(c *gin.Context) {
	options, err := a.categories.Options(c.Request.Context(), a.requestLanguage(c))
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "failed to load categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": options})
}

// ShowCategory resolves a category slug and lists its articles.
func (a *API) ShowCategory(c *gin.Context) {
	lang := a.requestLanguage(c)
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	key := catalog.SlugToCategory(slug)

	meta := gin.H{
		"category":   key,
		"label":      catalog.DisplayName(slug, lang),
		"urlSlug":    catalog.CategoryToSlug(key),
		"stateBased": catalog.IsStateBased(key),
	}
	if key == "" {
		meta["label"] = catalog.DisplayName(catalog.Latest, lang)
	} else if catalog.IsCustom(key) {
		meta["label"] = key
	}
	if catalog.IsStateBased(key) {
		meta["states"] = catalog.StateOptions(lang)
		if code := catalog.StateFromSlug(c.Query("state")); code != "" {
			meta["state"] = code
			meta["stateName"] = catalog.StateDisplayName(code, lang)
		}
	}

	filter, ok := newsFilter(c)
	if !ok {
		return
	}
	filter.Category = key
	state := a.feeds.News(filter).Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	page := state.Data
	page.Items = a.localizeList(c, page.Items)
	c.JSON(http.StatusOK, gin.H{"category": meta, "page": page})
}

// ListStates serves the state dropdown.
func (a *API) ListStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"states": catalog.StateOptions(a.requestLanguage(c))})
}

// ListBreakingNews serves the ticker.
func (a *API) ListBreakingNews(c *gin.Context) {
	state := a.feeds.BreakingNews().Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	items := state.Data
	if items == nil {
		items = []db.BreakingNews{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListVideos serves recent videos with their player URLs.
func (a *API) ListVideos(c *gin.Context) {
	state := a.feeds.RecentVideos().Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": videoPayloads(state.Data)})
}

func videoPayloads(videos []db.Video) []videoPayload {
	out := make([]videoPayload, 0, len(videos))
	for _, v := range videos {
		payload := videoPayload{Video: v}
		if embed, ok := render.ResolveEmbed(v.VideoURL); ok {
			payload.Platform = embed.Platform
			payload.EmbedURL = embed.EmbedURL
		}
		out = append(out, payload)
	}
	return out
}

// ListGallery serves recent photos.
func (a *API) ListGallery(c *gin.Context) {
	state := a.feeds.RecentGallery().Load(c.Request.Context())
	if state.Failed() {
		respondError(c, http.StatusServiceUnavailable, state.Error)
		return
	}
	items := state.Data
	if items == nil {
		items = []db.GalleryImage{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListAds serves eligible ads for a slot. Failures degrade to an empty list.
func (a *API) ListAds(c *gin.Context) {
	limit := parsePositiveInt(c.Query("max"), 1)
	state := a.feeds.AdSlot(c.Query("position"), catalog.Canonical(c.Query("category")), limit).Load(c.Request.Context())
	items := state.Data
	if state.Failed() || items == nil {
		items = []db.Advertisement{}
	}
	c.JSON(http.StatusOK, items)
}

// RecordAdImpression counts one impression.
func (a *API) RecordAdImpression(c *gin.Context) {
	if err := a.ads.RecordImpression(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAdNotFound) {
			respondError(c, http.StatusNotFound, "advertisement not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record impression")
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordAdClick counts one click and returns the link to open.
func (a *API) RecordAdClick(c *gin.Context) {
	link, err := a.ads.RecordClick(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAdNotFound) {
			respondError(c, http.StatusNotFound, "advertisement not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to record click")
		return
	}
	c.JSON(http.StatusOK, gin.H{"linkUrl": link, "target": "_blank"})
}

// ListComments serves approved comments of an article.
func (a *API) ListComments(c *gin.Context) {
	comments, err := a.comments.Approved(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "failed to load comments")
		return
	}
	if comments == nil {
		comments = []db.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{"items": comments})
}

// CreateComment stores a visitor comment.
func (a *API) CreateComment(c *gin.Context) {
	var payload service.CommentInput
	if !bindJSON(c, &payload, "invalid comment") {
		return
	}
	comment, err := a.comments.Create(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "article not found")
		case errors.Is(err, service.ErrCommentInvalid), errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save comment")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment, "pending": !comment.Approved})
}

// SubmitContact stores a contact form submission.
func (a *API) SubmitContact(c *gin.Context) {
	var payload service.ContactInput
	if !bindJSON(c, &payload, "invalid contact form") {
		return
	}
	submission, err := a.contacts.Submit(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactInvalid),
			errors.Is(err, service.ErrContactTypeInvalid),
			errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to submit contact form")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": submission.ID, "success": true})
}

// ShowPage serves a static page in the request language, or the other one.
func (a *API) ShowPage(c *gin.Context) {
	lang := a.requestLanguage(c)
	page, err := a.pages.GetBySlug(c.Request.Context(), c.Param("slug"), lang)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusServiceUnavailable, "failed to load page")
		return
	}
	html, err := render.HTML(page.Content)
	if err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{
		"page":        page,
		"contentHtml": html,
		"fallback":    page.Language != lang,
	})
}

// ShowSettings serves the public site settings.
func (a *API) ShowSettings(c *gin.Context) {
	settings, err := a.system.GetSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, settings)
}

func (a *API) ensureVisitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	visitorID := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookieName,
		Value:    visitorID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHTTPS(c),
		MaxAge:   visitorCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
	return visitorID
}

func (a *API) localizeList(c *gin.Context, list []db.Article) []db.Article {
	if a.translator == nil || len(list) == 0 {
		return list
	}
	return a.translator.Articles(c.Request.Context(), list, a.requestLanguage(c))
}

func (a *API) localizeOne(c *gin.Context, article *db.Article) *db.Article {
	if a.translator == nil {
		return article
	}
	return a.translator.Article(c.Request.Context(), article, a.requestLanguage(c))
}

func nonNil(list []db.Article) []db.Article {
	if list == nil {
		return []db.Article{}
	}
	return list
}
