// Package ads decides which advertisements are eligible to render.
package ads

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/sachpatra/internal/db"
)

// StartGrace is how far before its start date an ad becomes eligible.
// It absorbs timezone skew between the admin who scheduled it and the server.
const StartGrace = 48 * time.Hour

// DefaultMax is the number of ads shown in a slot when the caller gives none.
const DefaultMax = 1

var (
	ErrInvalidWindow   = errors.New("end date must be after start date")
	ErrInvalidPosition = errors.New("unknown ad position")
)

// MatchesCategory reports whether an ad may run on the requested category.
// An empty request matches everything; an ad without a category runs everywhere.
func MatchesCategory(ad db.Advertisement, category string) bool {
	if category == "" {
		return true
	}
	return ad.Category == "" || ad.Category == category
}

// InWindow applies the date window in the site location: start is moved to
// midnight minus the grace period, end to the last instant of its day, and
// now to midnight.
func InWindow(ad db.Advertisement, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	start := startOfDay(ad.StartDate.In(loc)).Add(-StartGrace)
	end := endOfDay(ad.EndDate.In(loc))
	today := startOfDay(now.In(loc))
	return !today.Before(start) && !today.After(end)
}

// Eligible reports whether the ad is active and inside its window.
func Eligible(ad db.Advertisement, now time.Time, loc *time.Location) bool {
	return ad.IsActive && InWindow(ad, now, loc)
}

// Filter returns the ads matching category that are eligible at now.
func Filter(list []db.Advertisement, category string, now time.Time, loc *time.Location) []db.Advertisement {
	result := make([]db.Advertisement, 0, len(list))
	for _, ad := range list {
		if MatchesCategory(ad, category) && Eligible(ad, now, loc) {
			result = append(result, ad)
		}
	}
	return result
}

// Select shuffles list in place and keeps at most max entries.
func Select(list []db.Advertisement, max int, rng *rand.Rand) []db.Advertisement {
	if max <= 0 {
		max = DefaultMax
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	if len(list) > max {
		list = list[:max]
	}
	return list
}

// ValidateWindow rejects an end date on or before the start date.
func ValidateWindow(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidWindow
	}
	return nil
}

// NormalizePosition lowercases p and checks it against the known slots.
func NormalizePosition(p string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(p))
	if !db.ValidAdPosition(normalized) {
		return "", ErrInvalidPosition
	}
	return normalized, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
