package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/service"
	"go.uber.org/zap"
)

type categoryPayload struct {
	Name string `json:"name" binding:"required"`
}

// AdminListBreakingNews lists every headline, inactive ones included.
func (a *API) AdminListBreakingNews(c *gin.Context) {
	items, err := a.breaking.All(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load breaking news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminSaveBreakingNews creates a headline (POST) or updates one (PUT /:id).
func (a *API) AdminSaveBreakingNews(c *gin.Context) {
	var payload service.BreakingNewsInput
	if !bindJSON(c, &payload, "invalid breaking news payload") {
		return
	}
	item, err := a.breaking.Save(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBreakingNewsNotFound):
			respondError(c, http.StatusNotFound, "breaking news not found")
		case errors.Is(err, service.ErrTitleMissing):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save breaking news")
		}
		return
	}
	c.JSON(savedStatus(c), item)
}

// AdminDeleteBreakingNews removes a headline.
func (a *API) AdminDeleteBreakingNews(c *gin.Context) {
	if err := a.breaking.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrBreakingNewsNotFound) {
			respondError(c, http.StatusNotFound, "breaking news not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete breaking news")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListVideos lists videos for the admin table.
func (a *API) AdminListVideos(c *gin.Context) {
	videos, err := a.videos.Recent(c.Request.Context(), maxPerPage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": videoPayloads(videos)})
}

// AdminSaveVideo creates or updates a video story.
func (a *API) AdminSaveVideo(c *gin.Context) {
	var payload service.VideoInput
	if !bindJSON(c, &payload, "invalid video payload") {
		return
	}
	video, err := a.videos.Save(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			respondError(c, http.StatusNotFound, "video not found")
		case errors.Is(err, service.ErrTitleMissing), errors.Is(err, service.ErrVideoURLInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save video")
		}
		return
	}
	c.JSON(savedStatus(c), video)
}

// AdminDeleteVideo removes a video.
func (a *API) AdminDeleteVideo(c *gin.Context) {
	if err := a.videos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			respondError(c, http.StatusNotFound, "video not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete video")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListGallery pages through gallery images.
func (a *API) AdminListGallery(c *gin.Context) {
	result, err := a.gallery.List(
		c.Request.Context(),
		parsePositiveInt(c.Query("page"), 1),
		parsePerPage(c.Query("perPage"), 12),
	)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load gallery")
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdminCreateGalleryImage adds a gallery image.
func (a *API) AdminCreateGalleryImage(c *gin.Context) {
	var payload service.GalleryInput
	if !bindJSON(c, &payload, "invalid gallery payload") {
		return
	}
	item, err := a.gallery.Create(c.Request.Context(), payload)
	if err != nil {
		a.respondGalleryError(c, err, "failed to create gallery image")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// AdminUpdateGalleryImage updates a gallery image.
func (a *API) AdminUpdateGalleryImage(c *gin.Context) {
	var payload service.GalleryInput
	if !bindJSON(c, &payload, "invalid gallery payload") {
		return
	}
	item, err := a.gallery.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		a.respondGalleryError(c, err, "failed to update gallery image")
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdminDeleteGalleryImage removes a gallery image.
func (a *API) AdminDeleteGalleryImage(c *gin.Context) {
	if err := a.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondGalleryError(c, err, "failed to delete gallery image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *API) respondGalleryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrGalleryNotFound):
		respondError(c, http.StatusNotFound, "gallery image not found")
	case errors.Is(err, service.ErrGalleryImageMissing):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// AdminListCategories returns staff-defined categories.
func (a *API) AdminListCategories(c *gin.Context) {
	items, err := a.categories.Custom(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminCreateCategory adds a custom category.
func (a *API) AdminCreateCategory(c *gin.Context) {
	var payload categoryPayload
	if !bindJSON(c, &payload, "category name is required") {
		return
	}
	category, err := a.categories.Create(c.Request.Context(), currentCapabilities(c), payload.Name)
	if err != nil {
		a.respondCategoryError(c, err, "failed to create category")
		return
	}
	a.tabs.Invalidate()
	c.JSON(http.StatusCreated, category)
}

// AdminDeleteCategory removes a custom category. Articles keep their value.
func (a *API) AdminDeleteCategory(c *gin.Context) {
	if err := a.categories.Delete(c.Request.Context(), currentCapabilities(c), c.Param("id")); err != nil {
		a.respondCategoryError(c, err, "failed to delete category")
		return
	}
	a.tabs.Invalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminMigrateCategories rewrites legacy localized category values.
func (a *API) AdminMigrateCategories(c *gin.Context) {
	result, err := a.categories.MigrateLegacyCategories(c.Request.Context(), currentCapabilities(c))
	if err != nil {
		a.respondCategoryError(c, err, "category migration failed")
		return
	}
	a.logger.Info("legacy categories migrated",
		zap.Int("scanned", result.Scanned),
		zap.Int("updated", result.Updated),
	)
	if result.Updated > 0 {
		a.tabs.Invalidate()
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) respondCategoryError(c *gin.Context, err error, fallback string) {
	if respondServiceError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "category not found")
	case errors.Is(err, service.ErrCategoryExists):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCategoryNameMissing):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error(fallback, zap.Error(err))
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// AdminListPages lists every language version of every page.
func (a *API) AdminListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load pages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": pages})
}

// AdminUpsertPage creates or replaces one language version of a page.
func (a *API) AdminUpsertPage(c *gin.Context) {
	var payload service.PageInput
	if !bindJSON(c, &payload, "invalid page payload") {
		return
	}
	page, err := a.pages.Upsert(c.Request.Context(), c.Param("slug"), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageSlugInvalid), errors.Is(err, service.ErrPageContentMissing):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save page")
		}
		return
	}
	c.JSON(http.StatusOK, page)
}

// AdminDeletePage removes the ?lang= version of a page.
func (a *API) AdminDeletePage(c *gin.Context) {
	if err := a.pages.Delete(c.Request.Context(), c.Param("slug"), c.Query("lang")); err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			respondError(c, http.StatusNotFound, "page not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminGetSettings returns the editable site settings.
func (a *API) AdminGetSettings(c *gin.Context) {
	settings, err := a.system.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// AdminUpdateSettings saves site settings.
func (a *API) AdminUpdateSettings(c *gin.Context) {
	var payload service.SystemSettingsInput
	if !bindJSON(c, &payload, "invalid settings payload") {
		return
	}
	settings, err := a.system.UpdateSettings(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSiteNameRequired),
			errors.Is(err, service.ErrLanguageUnsupported),
			errors.Is(err, service.ErrFooterTooLong):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save settings")
		}
		return
	}
	c.JSON(http.StatusOK, settings)
}

func savedStatus(c *gin.Context) int {
	if c.Param("id") == "" {
		return http.StatusCreated
	}
	return http.StatusOK
}
