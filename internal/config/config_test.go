package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SITE_BASE_URL", "https://example.in/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen addr :9090, got %q", cfg.ListenAddr)
	}
	if cfg.SiteBaseURL != "https://example.in" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.SiteBaseURL)
	}
	if cfg.CategoryFetchDelay != 100*time.Millisecond {
		t.Fatalf("expected 100ms delay, got %s", cfg.CategoryFetchDelay)
	}
	if !cfg.CommentsAutoApprove {
		t.Fatalf("expected comments to be auto-approved by default")
	}
	if cfg.UploadMaxBytes != 5<<20 {
		t.Fatalf("expected 5MB upload limit, got %d", cfg.UploadMaxBytes)
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Fatalf("expected Asia/Kolkata, got %s", cfg.Location())
	}
}

func TestValidateRejectsBadCombinations(t *testing.T) {
	base := AppConfig{DBDriver: "sqlite", TranslateProvider: "google", SiteTimezone: "UTC"}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected base config to be valid: %v", err)
	}

	pg := base
	pg.DBDriver = "postgres"
	if err := pg.Validate(); err == nil {
		t.Fatalf("expected postgres without dsn to fail")
	}

	ai := base
	ai.TranslateProvider = "openai"
	if err := ai.Validate(); err == nil {
		t.Fatalf("expected openai without key to fail")
	}

	tz := base
	tz.SiteTimezone = "Mars/Olympus"
	if err := tz.Validate(); err == nil {
		t.Fatalf("expected invalid timezone to fail")
	}
}
