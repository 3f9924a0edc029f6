package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sachpatra/internal/ads"
	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/metrics"
	"gorm.io/gorm"
)

var (
	ErrAdNotFound       = errors.New("advertisement not found")
	ErrAdFieldsRequired = errors.New("title, image and link are required")
	ErrInvalidAdDate    = errors.New("invalid advertisement date")
	ErrInvalidAdWindow  = ads.ErrInvalidWindow
)

// AdService stores advertisements and picks the ones to render.
type AdService struct {
	db  *gorm.DB
	loc *time.Location

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAdService creates an AdService evaluating date windows in loc.
func NewAdService(gdb *gorm.DB, loc *time.Location) *AdService {
	if loc == nil {
		loc = time.Local
	}
	return &AdService{db: gdb, loc: loc, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ForSlot returns up to max randomly chosen eligible ads for a position.
func (s *AdService) ForSlot(ctx context.Context, position, category string, max int, now time.Time) ([]db.Advertisement, error) {
	position, err := ads.NormalizePosition(position)
	if err != nil {
		return nil, err
	}
	var rows []db.Advertisement
	if err := s.db.WithContext(ctx).Where("position = ?", position).Find(&rows).Error; err != nil {
		return nil, err
	}
	eligible := ads.Filter(rows, catalog.Canonical(category), now, s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	return ads.Select(eligible, max, s.rng), nil
}

// RecordImpression bumps the impression counter in place.
func (s *AdService) RecordImpression(ctx context.Context, id string) error {
	if err := s.increment(ctx, id, "impression_count"); err != nil {
		return err
	}
	metrics.AdEvents.WithLabelValues("impression").Inc()
	return nil
}

// RecordClick bumps the click counter and returns the link to open.
func (s *AdService) RecordClick(ctx context.Context, id string) (string, error) {
	if err := s.increment(ctx, id, "click_count"); err != nil {
		return "", err
	}
	metrics.AdEvents.WithLabelValues("click").Inc()
	ad, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return ad.LinkURL, nil
}

func (s *AdService) increment(ctx context.Context, id, column string) error {
	res := s.db.WithContext(ctx).Model(&db.Advertisement{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}

// Get fetches one ad.
func (s *AdService) Get(ctx context.Context, id string) (*db.Advertisement, error) {
	var ad db.Advertisement
	if err := s.db.WithContext(ctx).First(&ad, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdNotFound
		}
		return nil, err
	}
	return &ad, nil
}

// All lists every ad, newest first.
func (s *AdService) All(ctx context.Context) ([]db.Advertisement, error) {
	var rows []db.Advertisement
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActive counts ads that would be eligible somewhere right now.
func (s *AdService) CountActive(ctx context.Context, now time.Time) (int, error) {
	var rows []db.Advertisement
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return 0, err
	}
	return len(ads.Filter(rows, "", now, s.loc)), nil
}

// AdInput is the admin form. Dates accept any format dateparse understands.
type AdInput struct {
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
	LinkURL   string `json:"linkUrl"`
	Position  string `json:"position"`
	Category  string `json:"category"`
	IsActive  bool   `json:"isActive"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Create validates and stores a new ad.
func (s *AdService) Create(ctx context.Context, input AdInput) (*db.Advertisement, error) {
	var ad db.Advertisement
	if err := s.apply(&ad, input); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// Update validates and replaces an ad's fields. Counters are kept.
func (s *AdService) Update(ctx context.Context, id string, input AdInput) (*db.Advertisement, error) {
	ad, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ad, input); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(ad).Error; err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete removes an ad.
func (s *AdService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&db.Advertisement{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdNotFound
	}
	return nil
}

func (s *AdService) apply(ad *db.Advertisement, input AdInput) error {
	title := strings.TrimSpace(input.Title)
	image := strings.TrimSpace(input.ImageURL)
	link := strings.TrimSpace(input.LinkURL)
	if title == "" || image == "" || link == "" {
		return ErrAdFieldsRequired
	}
	position, err := ads.NormalizePosition(input.Position)
	if err != nil {
		return err
	}
	start, err := s.parseDate(input.StartDate)
	if err != nil {
		return err
	}
	end, err := s.parseDate(input.EndDate)
	if err != nil {
		return err
	}
	if err := ads.ValidateWindow(start, end); err != nil {
		return err
	}

	ad.Title = title
	ad.ImageURL = image
	ad.LinkURL = link
	ad.Position = position
	ad.Category = catalog.Canonical(input.Category)
	ad.IsActive = input.IsActive
	ad.StartDate = start
	ad.EndDate = end
	return nil
}

func (s *AdService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidAdDate
	}
	t, err := dateparse.ParseIn(value, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidAdDate
	}
	return t, nil
}
