package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidArticleStatus reports whether s is a known article status.
func ValidArticleStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// RelatedLink is an external reference shown under an article.
type RelatedLink struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Article is a news story. Category always holds the canonical English key
// (or a custom category name), never a localized label.
type Article struct {
	ID               string                           `gorm:"primaryKey;size:36" json:"id"`
	Title            string                           `gorm:"not null" json:"title"`
	Excerpt          string                           `gorm:"type:text" json:"excerpt"`
	Content          string                           `gorm:"type:text" json:"content"`
	Category         string                           `gorm:"size:100;index" json:"category"`
	State            string                           `gorm:"size:2;index" json:"state,omitempty"`
	ImageURL         string                           `json:"imageUrl"`
	AdditionalImages datatypes.JSONSlice[string]      `json:"additionalImages"`
	VideoURL         string                           `json:"videoUrl,omitempty"`
	RelatedLinks     datatypes.JSONSlice[RelatedLink] `json:"relatedLinks"`
	Author           string                           `json:"author"`
	PublishedAt      string                           `json:"publishedAt"`
	Featured         bool                             `gorm:"index" json:"featured"`
	LatestNews       bool                             `json:"latestNews"`
	Status           string                           `gorm:"size:16;index;default:draft" json:"status"`
	Tags             datatypes.JSONSlice[string]      `json:"tags"`
	Views            int64                            `gorm:"default:0;index" json:"views"`
	CommentsCount    int64                            `gorm:"default:0" json:"commentsCount"`
	CreatedBy        string                           `gorm:"size:36;index" json:"createdBy,omitempty"`
	CreatedAt        time.Time                        `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time                        `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt                   `gorm:"index" json:"-"`
}

// BeforeCreate assigns an id when the caller did not.
func (a *Article) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

// BeforeSave keeps list columns non-null.
func (a *Article) BeforeSave(*gorm.DB) error {
	a.Normalize(time.Time{})
	return nil
}

// Normalize fills defaults for fields older rows may lack. A zero now leaves
// missing timestamps untouched.
func (a *Article) Normalize(now time.Time) {
	if a.Tags == nil {
		a.Tags = datatypes.JSONSlice[string]{}
	}
	if a.AdditionalImages == nil {
		a.AdditionalImages = datatypes.JSONSlice[string]{}
	}
	if a.RelatedLinks == nil {
		a.RelatedLinks = datatypes.JSONSlice[RelatedLink]{}
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if a.Views < 0 {
		a.Views = 0
	}
	if a.CommentsCount < 0 {
		a.CommentsCount = 0
	}
	if !now.IsZero() {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
	}
}

// Clone returns a copy with independent slices.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	out := *a
	out.Tags = append(datatypes.JSONSlice[string]{}, a.Tags...)
	out.AdditionalImages = append(datatypes.JSONSlice[string]{}, a.AdditionalImages...)
	out.RelatedLinks = append(datatypes.JSONSlice[RelatedLink]{}, a.RelatedLinks...)
	return &out
}

// ArticleVisit records the last view of an article by a visitor and backs
// unique-visitor counts.
type ArticleVisit struct {
	ID           uint      `gorm:"primaryKey"`
	ArticleID    string    `gorm:"size:36;uniqueIndex:idx_article_visitor"`
	VisitorID    string    `gorm:"size:64;uniqueIndex:idx_article_visitor"`
	ViewCount    int64     `gorm:"default:0"`
	LastViewedAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName pins the table name.
func (ArticleVisit) TableName() string {
	return "article_visits"
}
