package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sachpatra/internal/access"
	"github.com/sachpatra/internal/catalog"
	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/render"
	"gorm.io/gorm"
)

const (
	// WindowSize is the number of newest rows fetched per scan before filtering.
	WindowSize = 100
	// DefaultPageSize is used when a listing asks for no explicit size.
	DefaultPageSize = 12
	// StatusAll disables status filtering.
	StatusAll = "all"

	maxWindows     = 3
	featuredWindow = 20
	featuredLimit  = 5
	trendingWindow = 100
	trendingLimit  = 10
	excerptLength  = 200
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidStatus    = errors.New("invalid article status")
	ErrInvalidState     = errors.New("unknown state code")
)

// ArticleService lists and edits articles.
type ArticleService struct {
	db *gorm.DB
}

// NewArticleService creates an ArticleService.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// ArticleFilter narrows a listing. Category accepts a slug, key or label.
// Status "" means published; StatusAll disables the check.
type ArticleFilter struct {
	Category  string
	State     string
	Status    string
	CreatedBy string
	Page      int
	PageSize  int
	Cursor    string
}

// Page is one listing page. ApproximateTotal counts matches within the
// scanned windows only, not the whole collection.
type Page struct {
	Items            []db.Article `json:"items"`
	CurrentPage      int          `json:"currentPage"`
	TotalPages       int          `json:"totalPages"`
	ApproximateTotal int          `json:"approximateTotal"`
	ItemsPerPage     int          `json:"itemsPerPage"`
	NextCursor       string       `json:"nextCursor,omitempty"`
	HasMore          bool         `json:"hasMore"`
}

// List scans windows of the newest articles and filters them in memory.
// Up to three windows are read to fill the requested page. With a cursor the
// page number is ignored and the scan continues after the cursor.
func (s *ArticleService) List(ctx context.Context, filter ArticleFilter) (Page, error) {
	size := normalizePerPage(filter.PageSize, DefaultPageSize)
	page := normalizePage(filter.Page)
	cursor, err := db.DecodeCursor(filter.Cursor)
	if err != nil {
		return Page{}, err
	}
	if cursor != nil {
		page = 1
	}

	match := newArticleMatcher(filter)
	want := page * size
	var (
		matched   []db.Article
		total     int
		next      *db.Cursor
		exhausted bool
		capped    bool
	)

	for w := 0; w < maxWindows; w++ {
		window, err := s.window(ctx, cursor, WindowSize)
		if err != nil {
			return Page{}, err
		}
		for i := range window {
			if !match(&window[i]) {
				continue
			}
			total++
			if len(matched) < want {
				matched = append(matched, window[i])
				if len(matched) == want {
					c := db.CursorAfter(window[i])
					next = &c
				}
			}
		}
		if len(window) < WindowSize {
			exhausted = true
			break
		}
		last := db.CursorAfter(window[len(window)-1])
		cursor = &last
		if len(matched) >= want {
			break
		}
		if w == maxWindows-1 {
			capped = true
			next = &last
		}
	}

	start := (page - 1) * size
	result := Page{
		CurrentPage:      page,
		ItemsPerPage:     size,
		ApproximateTotal: total,
		TotalPages:       calculateTotalPages(int64(total), size),
		Items:            []db.Article{},
	}
	if start < len(matched) {
		result.Items = matched[start:]
	}
	now := utcNow()
	for i := range result.Items {
		result.Items[i].Normalize(now)
	}
	if next != nil && !(exhausted && total <= want) {
		result.NextCursor = db.EncodeCursor(*next)
	}
	result.HasMore = result.NextCursor != "" && (len(result.Items) == size || capped)
	return result, nil
}

func (s *ArticleService) window(ctx context.Context, cursor *db.Cursor, limit int) ([]db.Article, error) {
	var rows []db.Article
	query := cursor.Apply(s.db.WithContext(ctx).Model(&db.Article{}))
	if err := query.Order("created_at desc").Order("id desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func newArticleMatcher(filter ArticleFilter) func(*db.Article) bool {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "" {
		status = db.StatusPublished
	}
	category := catalog.Canonical(filter.Category)
	state := ""
	if category != "" && catalog.IsStateBased(category) {
		state = catalog.StateFromSlug(filter.State)
	}
	createdBy := strings.TrimSpace(filter.CreatedBy)

	return func(a *db.Article) bool {
		if status != StatusAll && a.Status != status {
			return false
		}
		if createdBy != "" && a.CreatedBy != createdBy {
			return false
		}
		if category != "" && !catalog.SameCategory(a.Category, category) {
			return false
		}
		return state == "" || MatchesState(a, state)
	}
}

// MatchesState reports whether a belongs to the state: either its explicit
// state equals the code, or the code or one of the state's names appears in
// the title, content or a tag. The text match exists for rows written before
// the state field did and can yield false positives for short codes.
func MatchesState(a *db.Article, code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return true
	}
	if strings.EqualFold(a.State, code) {
		return true
	}

	needles := []string{strings.ToLower(code)}
	if st, ok := catalog.StateByCode(code); ok {
		needles = append(needles, strings.ToLower(st.NameEn), st.NameHi)
	}
	haystacks := make([]string, 0, 2+len(a.Tags))
	haystacks = append(haystacks, strings.ToLower(a.Title), strings.ToLower(a.Content))
	for _, tag := range a.Tags {
		haystacks = append(haystacks, strings.ToLower(tag))
	}
	for _, h := range haystacks {
		for _, n := range needles {
			if n != "" && strings.Contains(h, n) {
				return true
			}
		}
	}
	return false
}

// Get fetches an article regardless of status.
func (s *ArticleService) Get(ctx context.Context, id string) (*db.Article, error) {
	var article db.Article
	if err := s.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	article.Normalize(utcNow())
	return &article, nil
}

// GetPublished hides drafts and archived articles behind ErrArticleNotFound.
func (s *ArticleService) GetPublished(ctx context.Context, id string) (*db.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != db.StatusPublished {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Recent returns the newest published articles.
func (s *ArticleService) Recent(ctx context.Context, limit int) ([]db.Article, error) {
	var rows []db.Article
	if err := s.db.WithContext(ctx).
		Where("status = ?", db.StatusPublished).
		Order("created_at desc").
		Limit(normalizePerPage(limit, DefaultPageSize)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return normalizeAll(rows), nil
}

// Featured returns up to five featured articles among the 20 newest published.
func (s *ArticleService) Featured(ctx context.Context) ([]db.Article, error) {
	recent, err := s.Recent(ctx, featuredWindow)
	if err != nil {
		return nil, err
	}
	out := make([]db.Article, 0, featuredLimit)
	for _, a := range recent {
		if a.Featured {
			out = append(out, a)
			if len(out) == featuredLimit {
				break
			}
		}
	}
	return out, nil
}

// MostViewed orders published articles by views. When no article has been
// viewed yet it falls back to the newest published ones.
func (s *ArticleService) MostViewed(ctx context.Context, limit int) ([]db.Article, error) {
	limit = normalizePerPage(limit, 5)
	var rows []db.Article
	if err := s.db.WithContext(ctx).
		Where("status = ? AND views > 0", db.StatusPublished).
		Order("views desc").
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return s.Recent(ctx, limit)
	}
	return normalizeAll(rows), nil
}

// TagCount is one trending tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TrendingTags tallies tags over the 100 newest published articles.
func (s *ArticleService) TrendingTags(ctx context.Context) ([]TagCount, error) {
	recent, err := s.Recent(ctx, trendingWindow)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, a := range recent {
		for _, tag := range a.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				counts[tag]++
			}
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > trendingLimit {
		out = out[:trendingLimit]
	}
	return out, nil
}

// All returns every article matching status ("" or StatusAll for any) and
// optionally one author, newest first. Used by admin tables.
func (s *ArticleService) All(ctx context.Context, status, createdBy string) ([]db.Article, error) {
	query := s.db.WithContext(ctx).Model(&db.Article{})
	if status != "" && status != StatusAll {
		query = query.Where("status = ?", status)
	}
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	var rows []db.Article
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return normalizeAll(rows), nil
}

// ArticleInput holds editable article fields.
type ArticleInput struct {
	Title            string           `json:"title"`
	Excerpt          string           `json:"excerpt"`
	Content          string           `json:"content"`
	Category         string           `json:"category"`
	State            string           `json:"state"`
	ImageURL         string           `json:"imageUrl"`
	AdditionalImages []string         `json:"additionalImages"`
	VideoURL         string           `json:"videoUrl"`
	RelatedLinks     []db.RelatedLink `json:"relatedLinks"`
	Author           string           `json:"author"`
	PublishedAt      string           `json:"publishedAt"`
	Featured         bool             `json:"featured"`
	LatestNews       bool             `json:"latestNews"`
	Status           string           `json:"status"`
	Tags             []string         `json:"tags"`
}

// Create stores a new article owned by the caller. Status defaults to draft.
func (s *ArticleService) Create(ctx context.Context, caps access.Capabilities, input ArticleInput) (*db.Article, error) {
	if !caps.CanWrite {
		return nil, ErrForbidden
	}
	category, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	article := db.Article{CreatedBy: caps.UserID}
	if err := applyArticleInput(&article, input, category, utcNow()); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Update replaces the editable fields after an ownership check.
func (s *ArticleService) Update(ctx context.Context, caps access.Capabilities, id string, input ArticleInput) (*db.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caps.CanEditArticle(article) {
		return nil, ErrForbidden
	}
	category, err := s.resolveCategory(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	if err := applyArticleInput(article, input, category, utcNow()); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// SetStatus toggles publication state after an ownership check.
func (s *ArticleService) SetStatus(ctx context.Context, caps access.Capabilities, id, status string) (*db.Article, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !db.ValidArticleStatus(status) {
		return nil, ErrInvalidStatus
	}
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caps.CanEditArticle(article) {
		return nil, ErrForbidden
	}
	updates := map[string]interface{}{"status": status}
	if status == db.StatusPublished && strings.TrimSpace(article.PublishedAt) == "" {
		updates["published_at"] = utcNow().Format(time.RFC3339)
	}
	if err := s.db.WithContext(ctx).Model(article).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes an article. purge removes the row for good and is
// reserved to admins.
func (s *ArticleService) Delete(ctx context.Context, caps access.Capabilities, id string, purge bool) error {
	article, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !caps.CanEditArticle(article) || (purge && !caps.CanAdmin) {
		return ErrForbidden
	}
	query := s.db.WithContext(ctx)
	if purge {
		query = query.Unscoped()
	}
	return query.Delete(&db.Article{}, "id = ?", id).Error
}

// CountByStatus feeds the dashboard.
func (s *ArticleService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := s.db.WithContext(ctx).Model(&db.Article{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{db.StatusDraft: 0, db.StatusPublished: 0, db.StatusArchived: 0}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

// BackfillDefaults repairs rows written without list columns or status.
func (s *ArticleService) BackfillDefaults(ctx context.Context) (int64, error) {
	var repaired int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for column, value := range map[string]string{
			"tags":              "[]",
			"additional_images": "[]",
			"related_links":     "[]",
		} {
			res := tx.Model(&db.Article{}).Where(column + " IS NULL").UpdateColumn(column, value)
			if res.Error != nil {
				return res.Error
			}
			repaired += res.RowsAffected
		}
		res := tx.Model(&db.Article{}).Where("status IS NULL OR status = ''").UpdateColumn("status", db.StatusDraft)
		if res.Error != nil {
			return res.Error
		}
		repaired += res.RowsAffected
		return nil
	})
	return repaired, err
}

// resolveCategory maps raw to a built-in key, or to the configured spelling
// of a custom category with the same slug.
func (s *ArticleService) resolveCategory(ctx context.Context, raw string) (string, error) {
	category := catalog.Canonical(raw)
	if category == "" || catalog.IsBuiltin(category) {
		return category, nil
	}
	var names []string
	if err := s.db.WithContext(ctx).Model(&db.CustomCategory{}).Pluck("name", &names).Error; err != nil {
		return "", err
	}
	for _, name := range names {
		if catalog.SameCategory(name, raw) {
			return name, nil
		}
	}
	return category, nil
}

func applyArticleInput(article *db.Article, input ArticleInput, category string, now time.Time) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if category == "" {
		return ErrCategoryRequired
	}
	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = db.StatusDraft
	}
	if !db.ValidArticleStatus(status) {
		return ErrInvalidStatus
	}
	state := ""
	if code := strings.TrimSpace(input.State); code != "" {
		st, ok := catalog.StateByCode(code)
		if !ok {
			return ErrInvalidState
		}
		state = st.Code
	}

	content := input.Content
	if render.IsHTML(content) {
		content = render.Sanitize(content)
	}
	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = render.Excerpt(content, excerptLength)
	}

	links := make([]db.RelatedLink, 0, len(input.RelatedLinks))
	for _, link := range input.RelatedLinks {
		link.URL = strings.TrimSpace(link.URL)
		if link.URL == "" {
			continue
		}
		if link.ID == "" {
			link.ID = uuid.NewString()
		}
		link.Title = strings.TrimSpace(link.Title)
		if link.Title == "" {
			link.Title = link.URL
		}
		links = append(links, link)
	}

	article.Title = title
	article.Excerpt = excerpt
	article.Content = content
	article.Category = category
	article.State = state
	article.ImageURL = strings.TrimSpace(input.ImageURL)
	article.AdditionalImages = cleanStrings(input.AdditionalImages)
	article.VideoURL = strings.TrimSpace(input.VideoURL)
	article.RelatedLinks = links
	article.Author = strings.TrimSpace(input.Author)
	article.PublishedAt = strings.TrimSpace(input.PublishedAt)
	article.Featured = input.Featured
	article.LatestNews = input.LatestNews
	article.Status = status
	article.Tags = cleanStrings(input.Tags)
	if status == db.StatusPublished && article.PublishedAt == "" {
		article.PublishedAt = now.Format(time.RFC3339)
	}
	return nil
}

func normalizeAll(rows []db.Article) []db.Article {
	if rows == nil {
		return []db.Article{}
	}
	now := utcNow()
	for i := range rows {
		rows[i].Normalize(now)
	}
	return rows
}
