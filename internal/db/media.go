package db

import (
	"time"

	"gorm.io/gorm"
)

// BreakingNews is a ticker headline.
type BreakingNews struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	IsActive  bool      `gorm:"index" json:"isActive"`
	Priority  int       `gorm:"default:0" json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the singular collection name.
func (BreakingNews) TableName() string {
	return "breaking_news"
}

func (b *BreakingNews) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}

// Video is an embedded video story.
type Video struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `gorm:"not null" json:"videoUrl"`
	Duration     string    `gorm:"size:16" json:"duration"`
	PublishedAt  string    `json:"publishedAt"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = newID()
	}
	return nil
}
