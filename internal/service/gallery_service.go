package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

var (
	ErrGalleryNotFound     = errors.New("gallery image not found")
	ErrGalleryImageMissing = errors.New("gallery image is required")
)

const galleryStripSize = 6

// GalleryService handles gallery CRUD.
type GalleryService struct {
	db *gorm.DB
}

// GalleryListResult aggregates paginated gallery results.
type GalleryListResult struct {
	Items      []db.GalleryImage `json:"items"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
}

// GalleryInput represents fields accepted when creating or updating a gallery image.
type GalleryInput struct {
	ImageURL    string `json:"imageUrl"`
	Caption     string `json:"caption"`
	ImageWidth  int    `json:"imageWidth"`
	ImageHeight int    `json:"imageHeight"`
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB) *GalleryService {
	return &GalleryService{db: gdb}
}

// Recent returns the images shown in the public strip.
func (s *GalleryService) Recent(ctx context.Context) ([]db.GalleryImage, error) {
	var items []db.GalleryImage
	if err := s.db.WithContext(ctx).Order("created_at desc").Limit(galleryStripSize).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// List returns one page of images, newest first.
func (s *GalleryService) List(ctx context.Context, page, perPage int) (GalleryListResult, error) {
	result := GalleryListResult{
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, 12),
	}

	query := s.db.WithContext(ctx).Model(&db.GalleryImage{})
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}

// Get fetches a gallery image by id.
func (s *GalleryService) Get(ctx context.Context, id string) (*db.GalleryImage, error) {
	var item db.GalleryImage
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new gallery image.
func (s *GalleryService) Create(ctx context.Context, input GalleryInput) (*db.GalleryImage, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, ErrGalleryImageMissing
	}
	item := db.GalleryImage{}
	applyGalleryInput(&item, input)
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing gallery image.
func (s *GalleryService) Update(ctx context.Context, id string, input GalleryInput) (*db.GalleryImage, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, ErrGalleryImageMissing
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyGalleryInput(item, input)
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a gallery image.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(item).Error
}

func applyGalleryInput(item *db.GalleryImage, input GalleryInput) {
	item.ImageURL = strings.TrimSpace(input.ImageURL)
	item.Caption = strings.TrimSpace(input.Caption)
	if input.ImageWidth > 0 && input.ImageHeight > 0 {
		item.ImageWidth = input.ImageWidth
		item.ImageHeight = input.ImageHeight
	}
}
