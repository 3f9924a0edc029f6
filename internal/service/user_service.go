package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength matches the sign-up form.
const MinPasswordLength = 6

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfRoleChange     = errors.New("cannot change your own role")
	ErrSelfDelete         = errors.New("cannot delete your own account")
)

// UserService manages sign-in accounts and staff profiles.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// RegisterInput creates an account and its profile.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Register creates the account and profile in one transaction. Only an admin
// creator may hand out a role other than editor.
func (s *UserService) Register(ctx context.Context, creator access.Capabilities, input RegisterInput) (*db.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role := db.RoleEditor
	if requested := strings.ToLower(strings.TrimSpace(input.Role)); requested != "" {
		if !db.ValidRole(requested) {
			return nil, ErrInvalidRole
		}
		if creator.CanAdmin {
			role = requested
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user db.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&db.Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrEmailTaken
		}
		account := db.Account{Email: email, PasswordHash: string(hash)}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		user = db.User{
			ID:          account.ID,
			Email:       email,
			DisplayName: displayNameOrDefault(input.DisplayName, email),
			Role:        role,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks the password and returns the profile, creating a
// default editor profile when the account has none.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	var account db.Account
	if err := s.db.WithContext(ctx).Where("email = ?", normalized).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.EnsureProfile(ctx, account.ID)
}

// EnsureProfile returns the profile of an account, creating one with the
// editor role if it does not exist yet.
func (s *UserService) EnsureProfile(ctx context.Context, accountID string) (*db.User, error) {
	user, err := s.Get(ctx, accountID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	var account db.Account
	if err := s.db.WithContext(ctx).First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	profile := db.User{
		ID:          account.ID,
		Email:       account.Email,
		DisplayName: displayNameOrDefault("", account.Email),
		Role:        db.RoleEditor,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Get fetches a profile by id.
func (s *UserService) Get(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all profiles, admins first.
func (s *UserService) List(ctx context.Context) ([]db.User, error) {
	var users []db.User
	if err := s.db.WithContext(ctx).Order("role_level asc").Order("created_at asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of profiles.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&db.User{}).Count(&n).Error
	return n, err
}

// ChangeRole sets another user's role. Admins cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, caps access.Capabilities, id, role string) (*db.User, error) {
	if !caps.CanAdmin {
		return nil, ErrForbidden
	}
	if !caps.CanChangeRole(id) {
		return nil, ErrSelfRoleChange
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !db.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes both account and profile. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, caps access.Capabilities, id string) error {
	if !caps.CanAdmin {
		return ErrForbidden
	}
	if !caps.CanDeleteUser(id) {
		return ErrSelfDelete
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&db.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Delete(&db.Account{}, "id = ?", id).Error
	})
}

// UpdateDisplayName changes the caller's own display name.
func (s *UserService) UpdateDisplayName(ctx context.Context, id, name string) (*db.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.DisplayName = displayNameOrDefault(name, user.Email)
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin bootstraps an admin account. An existing account keeps its
// password and is promoted.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*db.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	var account db.Account
	err = s.db.WithContext(ctx).Where("email = ?", normalized).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.Register(ctx, access.Capabilities{CanAdmin: true}, RegisterInput{
			Email:    normalized,
			Password: password,
			Role:     db.RoleAdmin,
		})
	case err != nil:
		return nil, err
	}

	user, err := s.EnsureProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if user.Role != db.RoleAdmin {
		user.Role = db.RoleAdmin
		if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

func displayNameOrDefault(name, email string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
