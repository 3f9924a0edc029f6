package db

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles. A lower level means more privilege.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"

	RoleLevelAdmin  = 1
	RoleLevelEditor = 2
)

// RoleLevel derives the numeric level from a role. Unknown roles rank as editor.
func RoleLevel(role string) int {
	if role == RoleAdmin {
		return RoleLevelAdmin
	}
	return RoleLevelEditor
}

// ValidRole reports whether role is assignable.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

// Account is the sign-in identity. Its ID is shared with the User profile.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate assigns an id when the caller did not.
func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}

// User is the staff profile attached to an Account.
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Email       string    `gorm:"size:255;index" json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `gorm:"size:16;default:editor" json:"role"`
	RoleLevel   int       `gorm:"default:2" json:"roleLevel"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeSave keeps RoleLevel derived from Role.
func (u *User) BeforeSave(*gorm.DB) error {
	if !ValidRole(u.Role) {
		u.Role = RoleEditor
	}
	u.RoleLevel = RoleLevel(u.Role)
	return nil
}
