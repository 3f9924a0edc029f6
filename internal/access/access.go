// Package access resolves what a staff user may do. It is the only place
// role strings are interpreted.
package access

import "github.com/sachpatra/internal/db"

// Tier is a route protection level.
type Tier int

const (
	TierRead Tier = iota + 1
	TierWrite
	TierAdmin
)

// Capabilities is the resolved permission set of one user.
type Capabilities struct {
	UserID   string `json:"-"`
	CanRead  bool   `json:"canRead"`
	CanWrite bool   `json:"canWrite"`
	CanAdmin bool   `json:"canAdmin"`
}

// For resolves capabilities. A nil user (anonymous visitor) gets none.
func For(user *db.User) Capabilities {
	if user == nil || user.ID == "" {
		return Capabilities{}
	}
	caps := Capabilities{UserID: user.ID, CanRead: true}
	switch user.Role {
	case db.RoleAdmin:
		caps.CanWrite = true
		caps.CanAdmin = true
	case db.RoleEditor:
		caps.CanWrite = true
	}
	return caps
}

// Allows reports whether the capabilities satisfy a tier.
func (c Capabilities) Allows(tier Tier) bool {
	switch tier {
	case TierRead:
		return c.CanRead
	case TierWrite:
		return c.CanWrite
	case TierAdmin:
		return c.CanAdmin
	}
	return false
}

// CanEditArticle: admins edit everything, editors only what they created.
func (c Capabilities) CanEditArticle(article *db.Article) bool {
	if article == nil || !c.CanWrite {
		return false
	}
	if c.CanAdmin {
		return true
	}
	return article.CreatedBy != "" && article.CreatedBy == c.UserID
}

// CanChangeRole forbids admins from changing their own role.
func (c Capabilities) CanChangeRole(targetID string) bool {
	return c.CanAdmin && targetID != c.UserID
}

// CanDeleteUser forbids deleting one's own account.
func (c Capabilities) CanDeleteUser(targetID string) bool {
	return c.CanAdmin && targetID != c.UserID
}
