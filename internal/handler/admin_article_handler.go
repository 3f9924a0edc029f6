package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

type statusPayload struct {
	Status string `json:"status" binding:"required"`
}

// AdminListArticles lists articles for the admin table. ?status= narrows by
// state ("all" for any) and ?mine=true keeps the caller's own articles.
func (a *API) AdminListArticles(c *gin.Context) {
	createdBy := ""
	if queryBool(c, "mine") {
		createdBy = currentUser(c).ID
	}
	articles, err := a.articles.All(c.Request.Context(), c.DefaultQuery("status", service.StatusAll), createdBy)
	if err != nil {
		a.logger.Error("list articles failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load articles")
		return
	}
	c.JSON(http.StatusOK, paginate(c, articles))
}

// AdminShowArticle returns one article in any state.
func (a *API) AdminShowArticle(c *gin.Context) {
	article, err := a.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.respondArticleError(c, err, "failed to load article")
		return
	}
	c.JSON(http.StatusOK, article)
}

// AdminCreateArticle stores a new article owned by the caller.
func (a *API) AdminCreateArticle(c *gin.Context) {
	var payload service.ArticleInput
	if !bindJSON(c, &payload, "invalid article payload") {
		return
	}
	article, err := a.articles.Create(c.Request.Context(), currentCapabilities(c), payload)
	if err != nil {
		a.respondArticleError(c, err, "failed to create article")
		return
	}
	a.articleChanged(article.ID)
	c.JSON(http.StatusCreated, article)
}

// AdminUpdateArticle replaces an article's editable fields.
func (a *API) AdminUpdateArticle(c *gin.Context) {
	var payload service.ArticleInput
	if !bindJSON(c, &payload, "invalid article payload") {
		return
	}
	article, err := a.articles.Update(c.Request.Context(), currentCapabilities(c), c.Param("id"), payload)
	if err != nil {
		a.respondArticleError(c, err, "failed to update article")
		return
	}
	a.articleChanged(article.ID)
	c.JSON(http.StatusOK, article)
}

// AdminSetArticleStatus publishes, archives or drafts an article.
func (a *API) AdminSetArticleStatus(c *gin.Context) {
	var payload statusPayload
	if !bindJSON(c, &payload, "status is required") {
		return
	}
	article, err := a.articles.SetStatus(c.Request.Context(), currentCapabilities(c), c.Param("id"), payload.Status)
	if err != nil {
		a.respondArticleError(c, err, "failed to update status")
		return
	}
	a.articleChanged(article.ID)
	c.JSON(http.StatusOK, article)
}

// AdminDeleteArticle soft-deletes an article; admins may pass ?purge=true.
func (a *API) AdminDeleteArticle(c *gin.Context) {
	id := c.Param("id")
	if err := a.articles.Delete(c.Request.Context(), currentCapabilities(c), id, queryBool(c, "purge")); err != nil {
		a.respondArticleError(c, err, "failed to delete article")
		return
	}
	a.articleChanged(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// articleChanged drops cached translations and tabs that may show the article.
func (a *API) articleChanged(id string) {
	if a.translator != nil {
		a.translator.Invalidate(id)
	}
	a.tabs.Invalidate()
}

func (a *API) respondArticleError(c *gin.Context, err error, fallback string) {
	if respondServiceError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "article not found")
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidState):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error(fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// AdminDashboard summarises content, moderation queues and traffic.
func (a *API) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	statuses, err := a.articles.CountByStatus(ctx)
	if err != nil {
		a.logger.Error("dashboard article counts failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	activeAds, err := a.ads.CountActive(ctx, a.now())
	if err != nil {
		c.Error(err)
	}
	users, err := a.users.Count(ctx)
	if err != nil {
		c.Error(err)
	}
	pending, err := a.comments.CountPending(ctx)
	if err != nil {
		c.Error(err)
	}
	newContacts, err := a.contacts.CountNew(ctx)
	if err != nil {
		c.Error(err)
	}
	overview, err := a.analytics.Overview(ctx, parsePositiveInt(c.Query("top"), 5))
	if err != nil {
		c.Error(err)
	}

	total := int64(0)
	for _, n := range statuses {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"articles": gin.H{
			"total":            total,
			db.StatusDraft:     statuses[db.StatusDraft],
			db.StatusPublished: statuses[db.StatusPublished],
			db.StatusArchived:  statuses[db.StatusArchived],
		},
		"activeAds":       activeAds,
		"users":           users,
		"pendingComments": pending,
		"newContacts":     newContacts,
		"analytics":       overview,
	})
}
