// Package service holds the data services over gorm. Each service wraps a
// *gorm.DB and returns sentinel errors that handlers map to HTTP statuses.
package service

import (
	"errors"
	"strings"
	"time"
)

// ErrForbidden is returned when the caller's capabilities do not cover the action.
var ErrForbidden = errors.New("operation not permitted")

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func utcNow() time.Time {
	return time.Now().UTC()
}
