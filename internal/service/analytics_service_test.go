package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/db"
)

func TestRecordViewCountsAndVisitors(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAnalyticsService(gdb)
	ctx := context.Background()
	article := seedArticle(t, gdb, 1, db.Article{Category: catalog.Sports})
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	first, err := svc.RecordView(ctx, article.ID, "visitor-1", now)
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	if !first {
		t.Fatalf("expected first view to be reported")
	}
	again, err := svc.RecordView(ctx, article.ID, "visitor-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if again {
		t.Fatalf("repeat view should not count as first")
	}
	if _, err := svc.RecordView(ctx, article.ID, "visitor-2", now); err != nil {
		t.Fatalf("third view: %v", err)
	}

	var stored db.Article
	if err := gdb.First(&stored, "id = ?", article.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Views != 3 {
		t.Fatalf("expected 3 views, got %d", stored.Views)
	}
	unique, err := svc.UniqueVisitors(ctx, article.ID)
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if unique != 2 {
		t.Fatalf("expected 2 unique visitors, got %d", unique)
	}

	overview, err := svc.Overview(ctx, 5)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalViews != 3 || overview.UniqueVisitors != 2 {
		t.Fatalf("unexpected overview %+v", overview)
	}
	if len(overview.TopArticles) != 1 || overview.TopArticles[0].UniqueVisitors != 2 {
		t.Fatalf("unexpected top articles %+v", overview.TopArticles)
	}
}

func TestRecordViewIgnoresDrafts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAnalyticsService(gdb)
	draft := seedArticle(t, gdb, 1, db.Article{Category: catalog.Sports, Status: db.StatusDraft})

	if _, err := svc.RecordView(context.Background(), draft.ID, "v", time.Now()); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound for draft, got %v", err)
	}
	if _, err := svc.RecordView(context.Background(), "", "v", time.Now()); !errors.Is(err, ErrInvalidVisit) {
		t.Fatalf("expected ErrInvalidVisit, got %v", err)
	}
}
