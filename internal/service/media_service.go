package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/render"
	"gorm.io/gorm"
)

const (
	breakingNewsLimit = 5
	recentVideoLimit  = 6
)

var (
	ErrBreakingNewsNotFound = errors.New("breaking news not found")
	ErrVideoNotFound        = errors.New("video not found")
	ErrTitleMissing         = errors.New("title is required")
	ErrVideoURLInvalid      = errors.New("video url is not a supported player link")
)

// BreakingNewsService manages the headline ticker.
type BreakingNewsService struct {
	db *gorm.DB
}

// NewBreakingNewsService creates a BreakingNewsService.
func NewBreakingNewsService(gdb *gorm.DB) *BreakingNewsService {
	return &BreakingNewsService{db: gdb}
}

// Active returns up to five active headlines, highest priority first.
func (s *BreakingNewsService) Active(ctx context.Context) ([]db.BreakingNews, error) {
	var rows []db.BreakingNews
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority desc").
		Order("created_at desc").
		Limit(breakingNewsLimit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// All lists every headline for the admin table.
func (s *BreakingNewsService) All(ctx context.Context) ([]db.BreakingNews, error) {
	var rows []db.BreakingNews
	if err := s.db.WithContext(ctx).Order("priority desc").Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BreakingNewsInput is the admin form.
type BreakingNewsInput struct {
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
	Priority int    `json:"priority"`
}

// Save creates a headline when id is empty and updates it otherwise.
func (s *BreakingNewsService) Save(ctx context.Context, id string, input BreakingNewsInput) (*db.BreakingNews, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleMissing
	}
	item := db.BreakingNews{}
	if id != "" {
		if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBreakingNewsNotFound
			}
			return nil, err
		}
	}
	item.Title = title
	item.IsActive = input.IsActive
	item.Priority = input.Priority
	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a headline.
func (s *BreakingNewsService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&db.BreakingNews{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBreakingNewsNotFound
	}
	return nil
}

// VideoService manages video stories.
type VideoService struct {
	db *gorm.DB
}

// NewVideoService creates a VideoService.
func NewVideoService(gdb *gorm.DB) *VideoService {
	return &VideoService{db: gdb}
}

// Recent returns the newest videos, six by default.
func (s *VideoService) Recent(ctx context.Context, limit int) ([]db.Video, error) {
	var rows []db.Video
	if err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(normalizePerPage(limit, recentVideoLimit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// VideoInput is the admin form.
type VideoInput struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
	Duration     string `json:"duration"`
	PublishedAt  string `json:"publishedAt"`
}

// Save creates a video when id is empty and updates it otherwise. The video
// URL must resolve to an embeddable player.
func (s *VideoService) Save(ctx context.Context, id string, input VideoInput) (*db.Video, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleMissing
	}
	videoURL := strings.TrimSpace(input.VideoURL)
	if _, ok := render.ResolveEmbed(videoURL); !ok {
		return nil, ErrVideoURLInvalid
	}
	video := db.Video{}
	if id != "" {
		if err := s.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVideoNotFound
			}
			return nil, err
		}
	}
	video.Title = title
	video.ThumbnailURL = strings.TrimSpace(input.ThumbnailURL)
	video.VideoURL = videoURL
	video.Duration = strings.TrimSpace(input.Duration)
	video.PublishedAt = strings.TrimSpace(input.PublishedAt)
	if err := s.db.WithContext(ctx).Save(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// Delete removes a video.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&db.Video{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}
