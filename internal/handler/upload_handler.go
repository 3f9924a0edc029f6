package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/storage"
	"go.uber.org/zap"
)

const uploadPrefix = "images"

// UploadImage stores a multipart "image" file and returns its public URL.
// The bytes are decoded to make sure they really are an image.
func (a *API) UploadImage(c *gin.Context) {
	if a.store == nil {
		respondError(c, http.StatusServiceUnavailable, "uploads are not configured")
		return
	}
	maxBytes := a.cfg.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = storage.DefaultMaxUploadBytes
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if file.Size > maxBytes {
		respondError(c, http.StatusRequestEntityTooLarge, storage.ErrTooLarge.Error())
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}
	info, err := storage.InspectImage(data, file.Header.Get("Content-Type"), maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			respondError(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			respondError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	key := storage.ObjectKey(uploadPrefix, info.Format, a.now())
	url, err := a.store.Put(c.Request.Context(), key, info.ContentType, data)
	if err != nil {
		a.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to store upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":    url,
		"width":  info.Width,
		"height": info.Height,
		"type":   info.ContentType,
	})
}
