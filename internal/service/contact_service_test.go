package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sachpatra/internal/db"
)

func TestContactSubmitValidatesAndNotifies(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewContactService(gdb)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, ContactInput{Name: "a", Email: "a@example.com"}); !errors.Is(err, ErrContactInvalid) {
		t.Fatalf("expected ErrContactInvalid, got %v", err)
	}
	if _, err := svc.Submit(ctx, ContactInput{Name: "a", Email: "a@example.com", Message: "m", Type: "spam"}); !errors.Is(err, ErrContactTypeInvalid) {
		t.Fatalf("expected ErrContactTypeInvalid, got %v", err)
	}

	updates, cancel := svc.Subscribe()
	defer cancel()

	submission, err := svc.Submit(ctx, ContactInput{Name: "Asha", Email: "asha@example.com", Message: "Tip about floods", Type: "news-tip"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Status != db.ContactStatusNew {
		t.Fatalf("expected status new, got %s", submission.Status)
	}

	select {
	case got := <-updates:
		if got.ID != submission.ID {
			t.Fatalf("unexpected notification %s", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber was not notified")
	}

	cancel()
	if _, ok := <-updates; ok {
		t.Fatalf("channel should be closed after cancel")
	}
}

func TestContactUpdateAndFilter(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewContactService(gdb)
	ctx := context.Background()

	first, err := svc.Submit(ctx, ContactInput{Name: "a", Email: "a@example.com", Message: "m"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, ContactInput{Name: "b", Email: "b@example.com", Message: "m", Type: "feedback"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	bogus := "archived"
	if _, err := svc.Update(ctx, first.ID, ContactUpdate{Status: &bogus}); !errors.Is(err, ErrContactStatusInvalid) {
		t.Fatalf("expected ErrContactStatusInvalid, got %v", err)
	}
	replied := "replied"
	notes := "called back"
	updated, err := svc.Update(ctx, first.ID, ContactUpdate{Status: &replied, AdminNotes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != db.ContactStatusReplied || updated.AdminNotes != notes {
		t.Fatalf("unexpected update %+v", updated)
	}

	fresh, err := svc.CountNew(ctx)
	if err != nil || fresh != 1 {
		t.Fatalf("expected 1 new submission, got %d (%v)", fresh, err)
	}
	feedback, err := svc.List(ctx, ContactFilter{Type: "feedback"})
	if err != nil || len(feedback) != 1 {
		t.Fatalf("expected 1 feedback submission, got %d (%v)", len(feedback), err)
	}
	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
