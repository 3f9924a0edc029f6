package db

import (
	"time"

	"gorm.io/gorm"
)

// Contact inquiry types.
const (
	ContactTypeGeneral     = "general"
	ContactTypeNewsTip     = "news-tip"
	ContactTypeFeedback    = "feedback"
	ContactTypeAdvertising = "advertising"
	ContactTypePartnership = "partnership"
	ContactTypeTechnical   = "technical"
)

// Contact submission statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusResolved = "resolved"
)

// ValidContactType reports whether t is a known inquiry type.
func ValidContactType(t string) bool {
	switch t {
	case ContactTypeGeneral, ContactTypeNewsTip, ContactTypeFeedback,
		ContactTypeAdvertising, ContactTypePartnership, ContactTypeTechnical:
		return true
	}
	return false
}

// ValidContactStatus reports whether s is a known status.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusResolved:
		return true
	}
	return false
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Subject    string    `json:"subject"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Type       string    `gorm:"size:20;default:general;index" json:"type"`
	Status     string    `gorm:"size:16;default:new;index" json:"status"`
	AdminNotes string    `gorm:"type:text" json:"adminNotes,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (c *ContactSubmission) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
