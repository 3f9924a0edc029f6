package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sachpatra/internal/ads"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestAdServiceValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAdService(gdb, ist)
	ctx := context.Background()

	base := AdInput{Title: "Sale", ImageURL: "/a.png", LinkURL: "https://shop.example", Position: "sidebar", StartDate: "2025-05-01", EndDate: "2025-05-10"}

	missing := base
	missing.LinkURL = ""
	if _, err := svc.Create(ctx, missing); !errors.Is(err, ErrAdFieldsRequired) {
		t.Fatalf("expected ErrAdFieldsRequired, got %v", err)
	}
	badPosition := base
	badPosition.Position = "popup"
	if _, err := svc.Create(ctx, badPosition); !errors.Is(err, ads.ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	inverted := base
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	if _, err := svc.Create(ctx, inverted); !errors.Is(err, ErrInvalidAdWindow) {
		t.Fatalf("expected ErrInvalidAdWindow, got %v", err)
	}
	garbage := base
	garbage.StartDate = "someday"
	if _, err := svc.Create(ctx, garbage); !errors.Is(err, ErrInvalidAdDate) {
		t.Fatalf("expected ErrInvalidAdDate, got %v", err)
	}

	rfc := base
	rfc.StartDate = "2025-05-01T00:00:00+05:30"
	rfc.Position = "SIDEBAR"
	rfc.Category = "खेल"
	ad, err := svc.Create(ctx, rfc)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ad.Position != "sidebar" || ad.Category != "sports" {
		t.Fatalf("expected normalized position and category, got %s/%s", ad.Position, ad.Category)
	}
}

func TestAdServiceForSlotAppliesWindowAndCategory(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAdService(gdb, ist)
	ctx := context.Background()

	mk := func(title, category string, active bool, start, end string) {
		t.Helper()
		if _, err := svc.Create(ctx, AdInput{Title: title, ImageURL: "/i.png", LinkURL: "https://x.example", Position: "top", Category: category, IsActive: active, StartDate: start, EndDate: end}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("everywhere", "", true, "2025-05-03", "2025-05-08")
	mk("sports-only", "sports", true, "2025-05-03", "2025-05-08")
	mk("inactive", "", false, "2025-05-03", "2025-05-08")
	mk("future", "", true, "2025-06-01", "2025-06-08")

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, ist) // two days before start
	list, err := svc.ForSlot(ctx, "top", "politics", 5, now)
	if err != nil {
		t.Fatalf("for slot: %v", err)
	}
	if len(list) != 1 || list[0].Title != "everywhere" {
		t.Fatalf("expected only the uncategorized ad, got %+v", list)
	}

	list, err = svc.ForSlot(ctx, "top", "sports", 5, now)
	if err != nil {
		t.Fatalf("for slot: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 ads for sports, got %d", len(list))
	}

	one, err := svc.ForSlot(ctx, "top", "", 0, now)
	if err != nil {
		t.Fatalf("for slot: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("default max should be 1, got %d", len(one))
	}

	active, err := svc.CountActive(ctx, now)
	if err != nil {
		t.Fatalf("count active: %v", err)
	}
	if active != 2 {
		t.Fatalf("expected 2 active ads, got %d", active)
	}
}

func TestAdServiceCounters(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewAdService(gdb, ist)
	ctx := context.Background()
	ad, err := svc.Create(ctx, AdInput{Title: "t", ImageURL: "/i.png", LinkURL: "https://go.example", Position: "footer", IsActive: true, StartDate: "2025-01-01", EndDate: "2025-12-31"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.RecordImpression(ctx, ad.ID); err != nil {
			t.Fatalf("impression: %v", err)
		}
	}
	link, err := svc.RecordClick(ctx, ad.ID)
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if link != "https://go.example" {
		t.Fatalf("unexpected link %s", link)
	}
	stored, err := svc.Get(ctx, ad.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ImpressionCount != 3 || stored.ClickCount != 1 {
		t.Fatalf("unexpected counters %d/%d", stored.ImpressionCount, stored.ClickCount)
	}
	if err := svc.RecordImpression(ctx, "missing"); !errors.Is(err, ErrAdNotFound) {
		t.Fatalf("expected ErrAdNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, ad.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, ad.ID); !errors.Is(err, ErrAdNotFound) {
		t.Fatalf("second delete should miss, got %v", err)
	}
}
