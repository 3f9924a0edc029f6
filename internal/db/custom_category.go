package db

import (
	"time"

	"gorm.io/gorm"
)

// CustomCategory is a staff-defined category outside the built-in set.
type CustomCategory struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedBy string    `gorm:"size:36" json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CustomCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
