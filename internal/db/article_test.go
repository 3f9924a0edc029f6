package db

import (
	"testing"
	"time"
)

func TestArticleNormalizeFillsDefaults(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	article := Article{Views: -3}
	article.Normalize(now)

	if article.Tags == nil || len(article.Tags) != 0 {
		t.Fatalf("expected empty tags, got %#v", article.Tags)
	}
	if article.AdditionalImages == nil || article.RelatedLinks == nil {
		t.Fatalf("expected empty list fields")
	}
	if article.Status != StatusDraft {
		t.Fatalf("expected draft status, got %q", article.Status)
	}
	if article.Views != 0 {
		t.Fatalf("expected views clamped to 0, got %d", article.Views)
	}
	if !article.CreatedAt.Equal(now) || !article.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to default to now")
	}
}

func TestArticleCloneCopiesSlices(t *testing.T) {
	original := &Article{Title: "a", Tags: []string{"x"}}
	clone := original.Clone()
	clone.Tags[0] = "y"
	clone.Title = "b"

	if original.Tags[0] != "x" || original.Title != "a" {
		t.Fatalf("clone mutated original: %#v", original)
	}
	if (*Article)(nil).Clone() != nil {
		t.Fatalf("expected nil clone of nil article")
	}
}

func TestValidArticleStatus(t *testing.T) {
	for _, status := range []string{StatusDraft, StatusPublished, StatusArchived} {
		if !ValidArticleStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if ValidArticleStatus("all") {
		t.Fatalf("expected all to be rejected as a stored status")
	}
}
