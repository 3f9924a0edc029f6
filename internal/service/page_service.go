package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/locale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrPageContentMissing = errors.New("page title and content are required")
	ErrPageSlugInvalid    = errors.New("page slug is invalid")
)

var pageSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PageService provides access to static pages such as About or Privacy,
// stored once per language.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches the page in lang, falling back to the other language.
// The returned page's Language tells which one was served.
func (s *PageService) GetBySlug(ctx context.Context, slug, lang string) (*db.Page, error) {
	slug = normalizePageSlug(slug)
	lang = languageOrDefault(lang)

	var pages []db.Page
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).Find(&pages).Error; err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrPageNotFound
	}
	for i := range pages {
		if pages[i].Language == lang {
			return &pages[i], nil
		}
	}
	return &pages[0], nil
}

// List returns every stored page version.
func (s *PageService) List(ctx context.Context) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.WithContext(ctx).Order("slug asc, language asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// PageInput is the admin payload for one language version of a page.
type PageInput struct {
	Language string `json:"language"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Upsert creates or replaces the (slug, language) version.
func (s *PageService) Upsert(ctx context.Context, slug string, input PageInput) (*db.Page, error) {
	slug = normalizePageSlug(slug)
	if !pageSlugPattern.MatchString(slug) {
		return nil, ErrPageSlugInvalid
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrPageContentMissing
	}

	page := db.Page{
		Slug:     slug,
		Language: languageOrDefault(input.Language),
		Title:    title,
		Content:  content,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(&page).Error
	if err != nil {
		return nil, err
	}

	var stored db.Page
	if err := s.db.WithContext(ctx).
		Where("slug = ? AND language = ?", page.Slug, page.Language).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes one language version.
func (s *PageService) Delete(ctx context.Context, slug, lang string) error {
	res := s.db.WithContext(ctx).
		Where("slug = ? AND language = ?", normalizePageSlug(slug), languageOrDefault(lang)).
		Delete(&db.Page{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPageNotFound
	}
	return nil
}

func normalizePageSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func languageOrDefault(lang string) string {
	if normalized := locale.NormalizeLanguage(lang); normalized != "" {
		return normalized
	}
	return locale.LanguageHindi
}
