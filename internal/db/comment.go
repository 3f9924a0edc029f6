package db

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a visitor comment. ArticleID is stored by value only.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ArticleID string    `gorm:"size:36;index" json:"articleId"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Approved  bool      `gorm:"index" json:"approved"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
