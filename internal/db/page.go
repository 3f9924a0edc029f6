package db

import "time"

// Page is a standalone bilingual content page such as About.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:80;uniqueIndex:idx_page_slug_lang;not null" json:"slug"`
	Language  string    `gorm:"size:8;uniqueIndex:idx_page_slug_lang;not null" json:"language"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
