package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func testSeedOptions() seedOptions {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	if loc == nil {
		loc = time.UTC
	}
	return seedOptions{
		AdminEmail:    "seed@sachpatra.test",
		AdminPassword: "seed-secret",
		Now:           time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Location:      loc,
	}
}

func TestSeedPopulatesEmptyDatabase(t *testing.T) {
	gdb := setupSeedTestDB(t)

	report, err := seed(context.Background(), gdb, testSeedOptions())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if report.Skipped {
		t.Fatalf("empty database must not be skipped")
	}

	var articles []db.Article
	if err := gdb.Find(&articles).Error; err != nil {
		t.Fatalf("failed to list articles: %v", err)
	}
	if len(articles) != report.Articles || len(articles) == 0 {
		t.Fatalf("expected %d articles, found %d", report.Articles, len(articles))
	}
	published, withState := 0, 0
	for _, article := range articles {
		if article.Status == db.StatusPublished {
			published++
		}
		if article.State != "" {
			withState++
			if article.Category != "national" {
				t.Fatalf("state %s set on non-national article %q", article.State, article.Title)
			}
		}
	}
	if published != len(articles)-1 {
		t.Fatalf("expected exactly one draft, got %d published of %d", published, len(articles))
	}
	if withState == 0 {
		t.Fatalf("expected state-tagged national stories")
	}

	var admins int64
	gdb.Model(&db.User{}).Where("email = ? AND role = ?", "seed@sachpatra.test", db.RoleAdmin).Count(&admins)
	if admins != 1 {
		t.Fatalf("expected seeded admin, got %d", admins)
	}

	for name, tc := range map[string]struct {
		model any
		want  int
	}{
		"ads":      {&db.Advertisement{}, report.Ads},
		"headline": {&db.BreakingNews{}, report.Breaking},
		"videos":   {&db.Video{}, report.Videos},
		"gallery":  {&db.GalleryImage{}, report.Gallery},
		"pages":    {&db.Page{}, report.Pages},
	} {
		var count int64
		if err := gdb.Model(tc.model).Count(&count).Error; err != nil {
			t.Fatalf("%s: count failed: %v", name, err)
		}
		if int(count) != tc.want || count == 0 {
			t.Fatalf("%s: expected %d rows, got %d", name, tc.want, count)
		}
	}
}

func TestSeedSkipsPopulatedDatabase(t *testing.T) {
	gdb := setupSeedTestDB(t)
	opts := testSeedOptions()

	first, err := seed(context.Background(), gdb, opts)
	if err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	second, err := seed(context.Background(), gdb, opts)
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if !second.Skipped {
		t.Fatalf("second run should be skipped")
	}

	var count int64
	gdb.Model(&db.Article{}).Count(&count)
	if int(count) != first.Articles {
		t.Fatalf("second run changed article count to %d", count)
	}
	var users int64
	gdb.Model(&db.User{}).Count(&users)
	if users != 1 {
		t.Fatalf("expected a single admin after two runs, got %d", users)
	}
}
