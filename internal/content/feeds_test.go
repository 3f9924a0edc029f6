package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/service"
	"gorm.io/datatypes"
)

func newTestFeeds(t *testing.T) (*Feeds, func(db.Article)) {
	t.Helper()
	dsn := fmt.Sprintf("file:content-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	feeds := &Feeds{
		Articles: service.NewArticleService(gdb),
		Ads:      service.NewAdService(gdb, time.UTC),
		Breaking: service.NewBreakingNewsService(gdb),
		Videos:   service.NewVideoService(gdb),
		Gallery:  service.NewGalleryService(gdb),
	}
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	seed := func(a db.Article) {
		n++
		if a.Title == "" {
			a.Title = fmt.Sprintf("story %d", n)
		}
		a.Status = db.StatusPublished
		a.CreatedAt = base.Add(time.Duration(n) * time.Minute)
		if err := gdb.Create(&a).Error; err != nil {
			t.Fatalf("seed article: %v", err)
		}
	}
	return feeds, seed
}

func TestFeedsHome(t *testing.T) {
	feeds, seed := newTestFeeds(t)
	seed(db.Article{Featured: true, Tags: datatypes.JSONSlice[string]{"monsoon"}})
	seed(db.Article{Views: 40})
	seed(db.Article{})

	home := feeds.Home(context.Background())
	if len(home.Errors) != 0 {
		t.Fatalf("unexpected errors %v", home.Errors)
	}
	if len(home.Latest) != 3 || len(home.Featured) != 1 {
		t.Fatalf("unexpected latest/featured %d/%d", len(home.Latest), len(home.Featured))
	}
	if len(home.MostViewed) != 1 || home.MostViewed[0].Views != 40 {
		t.Fatalf("unexpected most viewed %+v", home.MostViewed)
	}
	if len(home.TrendingTags) != 1 || home.TrendingTags[0].Tag != "monsoon" {
		t.Fatalf("unexpected trending tags %+v", home.TrendingTags)
	}
	if home.Videos == nil || home.Gallery == nil || home.BreakingNews == nil {
		t.Fatal("empty sections must be empty lists")
	}
}

func TestFeedsHomeReportsFailuresPerSection(t *testing.T) {
	feeds, _ := newTestFeeds(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	home := feeds.Home(ctx)
	if len(home.Errors) == 0 {
		t.Fatal("expected section errors for a cancelled request")
	}
	if home.Latest == nil {
		t.Fatal("failed sections must stay empty lists")
	}
}

func TestFeedsArticleMissingIsNil(t *testing.T) {
	feeds, _ := newTestFeeds(t)
	state := feeds.Article("missing").Load(context.Background())
	if state.Failed() || state.Data != nil {
		t.Fatalf("expected nil data without error, got %+v", state)
	}
}
