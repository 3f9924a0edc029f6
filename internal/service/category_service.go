package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists      = errors.New("category already exists")
	ErrCategoryNameMissing = errors.New("category name is required")
	ErrCategoryNotFound    = errors.New("category not found")
)

// CategoryService manages staff-defined categories and rewrites legacy
// category values.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// Custom returns the custom categories ordered by creation.
func (s *CategoryService) Custom(ctx context.Context) ([]db.CustomCategory, error) {
	var rows []db.CustomCategory
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CustomNames returns only the names, for the resolver.
func (s *CategoryService) CustomNames(ctx context.Context) ([]string, error) {
	rows, err := s.Custom(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}

// Options lists built-in and custom categories labelled in lang.
func (s *CategoryService) Options(ctx context.Context, lang string) ([]catalog.Option, error) {
	names, err := s.CustomNames(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.AllCategories(lang, names), nil
}

// Create adds a custom category. Names that clash with a built-in key or
// label, or with an existing custom category in any letter case, are refused.
func (s *CategoryService) Create(ctx context.Context, caps access.Capabilities, name string) (*db.CustomCategory, error) {
	if !caps.CanWrite {
		return nil, ErrForbidden
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, ErrCategoryNameMissing
	}
	if catalog.IsBuiltin(catalog.Canonical(name)) {
		return nil, ErrCategoryExists
	}

	category := db.CustomCategory{Name: name, CreatedBy: caps.UserID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&db.CustomCategory{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrCategoryExists
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a custom category. Articles keep their stored value.
func (s *CategoryService) Delete(ctx context.Context, caps access.Capabilities, id string) error {
	if !caps.CanAdmin {
		return ErrForbidden
	}
	res := s.db.WithContext(ctx).Delete(&db.CustomCategory{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// MigrationResult reports a legacy category rewrite.
type MigrationResult struct {
	Scanned int            `json:"scanned"`
	Updated int            `json:"updated"`
	Changes map[string]int `json:"changes"`
}

// MigrateLegacyCategories rewrites articles whose category holds a localized
// label into the canonical key, in a single transaction.
func (s *CategoryService) MigrateLegacyCategories(ctx context.Context, caps access.Capabilities) (MigrationResult, error) {
	result := MigrationResult{Changes: map[string]int{}}
	if !caps.CanAdmin {
		return result, ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []struct {
			ID       string
			Category string
		}
		if err := tx.Model(&db.Article{}).Unscoped().Select("id, category").Scan(&rows).Error; err != nil {
			return err
		}
		result.Scanned = len(rows)
		for _, row := range rows {
			key, changed := catalog.LegacyToCanonical(row.Category)
			if !changed {
				continue
			}
			if err := tx.Model(&db.Article{}).Unscoped().
				Where("id = ?", row.ID).
				UpdateColumn("category", key).Error; err != nil {
				return err
			}
			result.Updated++
			result.Changes[row.Category+" → "+key]++
		}
		return nil
	})
	if err != nil {
		return MigrationResult{Changes: map[string]int{}}, err
	}
	return result, nil
}
