package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

var seedBase = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

// seedArticle inserts an article created n minutes after seedBase.
func seedArticle(t *testing.T, gdb *gorm.DB, n int, a db.Article) db.Article {
	t.Helper()
	if a.Title == "" {
		a.Title = fmt.Sprintf("article %d", n)
	}
	if a.Status == "" {
		a.Status = db.StatusPublished
	}
	a.CreatedAt = seedBase.Add(time.Duration(n) * time.Minute)
	a.UpdatedAt = a.CreatedAt
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return a
}

var (
	adminCaps  = access.Capabilities{UserID: "admin-1", CanRead: true, CanWrite: true, CanAdmin: true}
	editorCaps = access.Capabilities{UserID: "editor-1", CanRead: true, CanWrite: true}
	otherCaps  = access.Capabilities{UserID: "editor-2", CanRead: true, CanWrite: true}
)
