package service

import (
	"context"
	"errors"
	"testing"
)

func TestBreakingNewsActiveOrdering(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewBreakingNewsService(gdb)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "", BreakingNewsInput{}); !errors.Is(err, ErrTitleMissing) {
		t.Fatalf("expected ErrTitleMissing, got %v", err)
	}
	for i, priority := range []int{1, 5, 3, 9, 2, 7} {
		if _, err := svc.Save(ctx, "", BreakingNewsInput{Title: "headline", IsActive: i != 3, Priority: priority}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 5 {
		t.Fatalf("expected 5 active headlines, got %d", len(active))
	}
	want := []int{7, 5, 3, 2, 1}
	for i, item := range active {
		if item.Priority != want[i] {
			t.Fatalf("position %d: priority %d, want %d", i, item.Priority, want[i])
		}
	}

	updated, err := svc.Save(ctx, active[0].ID, BreakingNewsInput{Title: "edited", IsActive: false, Priority: 7})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != active[0].ID || updated.IsActive {
		t.Fatalf("unexpected update %+v", updated)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, ErrBreakingNewsNotFound) {
		t.Fatalf("expected ErrBreakingNewsNotFound, got %v", err)
	}
}

func TestVideoSaveRequiresPlayableURL(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewVideoService(gdb)
	ctx := context.Background()

	if _, err := svc.Save(ctx, "", VideoInput{Title: "clip", VideoURL: "https://example.com/clip.mp4"}); !errors.Is(err, ErrVideoURLInvalid) {
		t.Fatalf("expected ErrVideoURLInvalid, got %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, err := svc.Save(ctx, "", VideoInput{Title: "clip", VideoURL: "https://youtu.be/abc"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	recent, err := svc.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 6 {
		t.Fatalf("expected 6 recent videos, got %d", len(recent))
	}
	if err := svc.Delete(ctx, recent[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
