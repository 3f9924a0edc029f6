package db

import (
	"time"

	"gorm.io/gorm"
)

// Ad positions.
const (
	PositionHeader  = "header"
	PositionTop     = "top"
	PositionSidebar = "sidebar"
	PositionContent = "content"
	PositionFooter  = "footer"
)

// ValidAdPosition reports whether p is a known slot.
func ValidAdPosition(p string) bool {
	switch p {
	case PositionHeader, PositionTop, PositionSidebar, PositionContent, PositionFooter:
		return true
	}
	return false
}

// Advertisement is a banner placed in one slot of the public site.
// Category is optional; empty means the ad runs on every category.
type Advertisement struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	ImageURL        string    `gorm:"not null" json:"imageUrl"`
	LinkURL         string    `gorm:"not null" json:"linkUrl"`
	Position        string    `gorm:"size:16;index" json:"position"`
	Category        string    `gorm:"size:100" json:"category,omitempty"`
	IsActive        bool      `gorm:"index" json:"isActive"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	ClickCount      int64     `gorm:"default:0" json:"clickCount"`
	ImpressionCount int64     `gorm:"default:0" json:"impressionCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not.
func (a *Advertisement) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}
