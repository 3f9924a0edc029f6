package db

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	token := EncodeCursor(CursorAfter(Article{ID: "abc", CreatedAt: created}))

	decoded, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "abc" || !decoded.CreatedAt.Equal(created) {
		t.Fatalf("unexpected cursor %+v", decoded)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if c, err := DecodeCursor(""); err != nil || c != nil {
		t.Fatalf("empty token should decode to nil, got %v %v", c, err)
	}
	if _, err := DecodeCursor("!!!"); err != ErrInvalidCursor {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := DecodeCursor("e30"); err != ErrInvalidCursor {
		t.Fatalf("expected ErrInvalidCursor for empty object, got %v", err)
	}
}

func TestCursorPagesThroughRows(t *testing.T) {
	gdb := openTestDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		a := Article{Title: "t", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := gdb.Create(&a).Error; err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var first []Article
	if err := gdb.Order("created_at desc, id desc").Limit(3).Find(&first).Error; err != nil {
		t.Fatalf("first window: %v", err)
	}
	cursor := CursorAfter(first[len(first)-1])

	var second []Article
	if err := cursor.Apply(gdb.Model(&Article{})).Order("created_at desc, id desc").Limit(3).Find(&second).Error; err != nil {
		t.Fatalf("second window: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(second))
	}
	if !second[0].CreatedAt.Before(first[2].CreatedAt) {
		t.Fatalf("second window overlaps the first")
	}
}
