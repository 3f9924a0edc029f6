package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestGalleryCreateAndList(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewGalleryService(gdb)
	ctx := context.Background()

	if _, err := svc.Create(ctx, GalleryInput{}); !errors.Is(err, ErrGalleryImageMissing) {
		t.Fatalf("expected error for missing image, got %v", err)
	}

	for i := 0; i < 8; i++ {
		if _, err := svc.Create(ctx, GalleryInput{ImageURL: fmt.Sprintf("/uploads/%d.jpg", i), Caption: "चित्र"}); err != nil {
			t.Fatalf("create gallery image: %v", err)
		}
	}

	strip, err := svc.Recent(ctx)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(strip) != 6 {
		t.Fatalf("expected 6 images in the strip, got %d", len(strip))
	}

	result, err := svc.List(ctx, 2, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 8 || result.TotalPages != 2 || len(result.Items) != 3 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", result.Total, result.TotalPages, len(result.Items))
	}
}

func TestGalleryUpdateAndDelete(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewGalleryService(gdb)
	ctx := context.Background()

	item, err := svc.Create(ctx, GalleryInput{ImageURL: "/uploads/a.jpg", Caption: "old", ImageWidth: 800, ImageHeight: 600})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, item.ID, GalleryInput{ImageURL: "/uploads/b.jpg", Caption: "new"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Caption != "new" || updated.ImageWidth != 800 {
		t.Fatalf("unexpected update %+v", updated)
	}
	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, item.ID); !errors.Is(err, ErrGalleryNotFound) {
		t.Fatalf("expected ErrGalleryNotFound, got %v", err)
	}
}
