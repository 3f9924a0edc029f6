package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sachpatra/internal/paging"
)

const (
	defaultAdminPerPage = 20
	maxPerPage          = 100
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parsePositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parsePerPage(value string, fallback int) int {
	perPage := parsePositiveInt(value, fallback)
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func queryBool(c *gin.Context, key string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && parsed
}

// paginate windows an admin list by ?page= and ?perPage=.
func paginate[T any](c *gin.Context, items []T) paging.Page[T] {
	perPage := parsePerPage(c.Query("perPage"), defaultAdminPerPage)
	page := parsePositiveInt(c.Query("page"), 1)
	return paging.New(items, perPage, page).Snapshot()
}
