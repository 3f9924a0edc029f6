package db

import (
	"time"

	"gorm.io/gorm"
)

// GalleryImage is a photo in the public gallery strip.
type GalleryImage struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	Caption     string    `json:"caption"`
	ImageWidth  int       `json:"imageWidth,omitempty"`
	ImageHeight int       `json:"imageHeight,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (g *GalleryImage) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = newID()
	}
	return nil
}
