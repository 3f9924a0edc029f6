package ads

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sachpatra/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func day(d int, hour, minute, second int) time.Time {
	return time.Date(2025, time.March, d, hour, minute, second, 0, ist)
}

func TestInWindowBoundaries(t *testing.T) {
	ad := db.Advertisement{IsActive: true, StartDate: day(10, 15, 0, 0), EndDate: day(15, 9, 0, 0)}

	assert.True(t, Eligible(ad, day(8, 0, 0, 0), ist), "start minus two days")
	assert.True(t, Eligible(ad, day(8, 23, 0, 0), ist))
	assert.True(t, Eligible(ad, day(15, 23, 59, 59), ist), "end of the last day")
	assert.False(t, Eligible(ad, day(7, 23, 59, 59), ist), "three days early")
	assert.False(t, Eligible(ad, day(16, 0, 0, 0), ist), "day after end")
}

func TestInactiveAdIsNeverEligible(t *testing.T) {
	ad := db.Advertisement{IsActive: false, StartDate: day(1, 0, 0, 0), EndDate: day(28, 0, 0, 0)}
	assert.False(t, Eligible(ad, day(10, 12, 0, 0), ist))
}

func TestWindowUsesSiteLocation(t *testing.T) {
	// 20:00 UTC on the 15th is already the 16th in India.
	ad := db.Advertisement{
		IsActive:  true,
		StartDate: day(10, 0, 0, 0),
		EndDate:   time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
	now := time.Date(2025, time.March, 15, 20, 0, 0, 0, time.UTC)
	assert.False(t, Eligible(ad, now, ist))
	assert.True(t, Eligible(ad, now, time.UTC))
}

func TestMatchesCategory(t *testing.T) {
	open := db.Advertisement{}
	sports := db.Advertisement{Category: "sports"}

	for _, category := range []string{"", "sports", "politics"} {
		assert.True(t, MatchesCategory(open, category), category)
	}
	assert.True(t, MatchesCategory(sports, "sports"))
	assert.True(t, MatchesCategory(sports, ""))
	assert.False(t, MatchesCategory(sports, "politics"))
	assert.False(t, MatchesCategory(sports, "Sports"))
}

func TestFilterCombinesScopeAndWindow(t *testing.T) {
	now := day(12, 10, 0, 0)
	list := []db.Advertisement{
		{ID: "a", IsActive: true, StartDate: day(10, 0, 0, 0), EndDate: day(20, 0, 0, 0)},
		{ID: "b", IsActive: true, Category: "politics", StartDate: day(10, 0, 0, 0), EndDate: day(20, 0, 0, 0)},
		{ID: "c", IsActive: true, Category: "sports", StartDate: day(1, 0, 0, 0), EndDate: day(5, 0, 0, 0)},
		{ID: "d", IsActive: true, Category: "sports", StartDate: day(11, 0, 0, 0), EndDate: day(12, 0, 0, 0)},
	}

	got := Filter(list, "sports", now, ist)
	ids := make([]string, 0, len(got))
	for _, ad := range got {
		ids = append(ids, ad.ID)
	}
	assert.Equal(t, []string{"a", "d"}, ids)
}

func TestSelectTruncates(t *testing.T) {
	list := []db.Advertisement{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	rng := rand.New(rand.NewSource(7))

	got := Select(append([]db.Advertisement(nil), list...), 3, rng)
	require.Len(t, got, 3)

	seen := map[string]bool{}
	for _, ad := range got {
		assert.False(t, seen[ad.ID], "duplicate %s", ad.ID)
		seen[ad.ID] = true
	}

	assert.Len(t, Select(append([]db.Advertisement(nil), list...), 0, rng), DefaultMax)
	assert.Empty(t, Select(nil, 2, rng))
}

func TestValidateWindow(t *testing.T) {
	start := day(10, 0, 0, 0)
	assert.NoError(t, ValidateWindow(start, start.Add(time.Hour)))
	assert.ErrorIs(t, ValidateWindow(start, start), ErrInvalidWindow)
	assert.ErrorIs(t, ValidateWindow(start, start.Add(-time.Hour)), ErrInvalidWindow)
}

func TestNormalizePosition(t *testing.T) {
	p, err := NormalizePosition(" Sidebar ")
	require.NoError(t, err)
	assert.Equal(t, db.PositionSidebar, p)

	_, err = NormalizePosition("popup")
	assert.ErrorIs(t, err, ErrInvalidPosition)
}
