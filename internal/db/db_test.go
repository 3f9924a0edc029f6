package db

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(Options{Driver: DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestOpenMigratesInMemorySQLite(t *testing.T) {
	gdb := openTestDB(t)

	for _, model := range Models() {
		if !gdb.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}

	article := Article{Title: "परीक्षण", Category: "sports"}
	if err := gdb.Create(&article).Error; err != nil {
		t.Fatalf("create article: %v", err)
	}
	if article.ID == "" {
		t.Fatalf("expected generated id")
	}

	var loaded Article
	if err := gdb.First(&loaded, "id = ?", article.ID).Error; err != nil {
		t.Fatalf("load article: %v", err)
	}
	if loaded.Tags == nil || loaded.Status != StatusDraft {
		t.Fatalf("expected defaults after round trip, got tags=%#v status=%q", loaded.Tags, loaded.Status)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "mysql", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := Open(Options{Driver: DriverPostgres}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
}

func TestUserRoleLevelDerived(t *testing.T) {
	user := User{Role: "superuser", RoleLevel: 1}
	if err := user.BeforeSave(nil); err != nil {
		t.Fatalf("before save: %v", err)
	}
	if user.Role != RoleEditor || user.RoleLevel != RoleLevelEditor {
		t.Fatalf("expected unknown role to fall back to editor, got %s/%d", user.Role, user.RoleLevel)
	}
	user.Role = RoleAdmin
	_ = user.BeforeSave(nil)
	if user.RoleLevel != RoleLevelAdmin {
		t.Fatalf("expected admin level 1, got %d", user.RoleLevel)
	}
}
