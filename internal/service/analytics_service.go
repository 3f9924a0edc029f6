package service

import (
	"context"
	"errors"
	"time"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidVisit is returned when a view has no article or visitor.
var ErrInvalidVisit = errors.New("invalid visitor or article id")

// AnalyticsService tracks article views.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// RecordView increments the article's view counter atomically and upserts the
// visitor's row. It reports whether this was the visitor's first view.
func (s *AnalyticsService) RecordView(ctx context.Context, articleID, visitorID string, now time.Time) (bool, error) {
	if articleID == "" || visitorID == "" {
		return false, ErrInvalidVisit
	}

	firstVisit := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.Article{}).
			Where("id = ? AND status = ?", articleID, db.StatusPublished).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrArticleNotFound
		}

		visit := db.ArticleVisit{ArticleID: articleID, VisitorID: visitorID, ViewCount: 1, LastViewedAt: now}
		insert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "article_id"}, {Name: "visitor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count":     gorm.Expr("article_visits.view_count + 1"),
				"last_viewed_at": now,
			}),
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		var count int64
		if err := tx.Model(&db.ArticleVisit{}).
			Where("article_id = ? AND visitor_id = ?", articleID, visitorID).
			Select("view_count").Scan(&count).Error; err != nil {
			return err
		}
		firstVisit = count == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	metrics.ArticleViews.Inc()
	return firstVisit, nil
}

// UniqueVisitors counts distinct visitors of one article.
func (s *AnalyticsService) UniqueVisitors(ctx context.Context, articleID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&db.ArticleVisit{}).Where("article_id = ?", articleID).Count(&n).Error
	return n, err
}

// SiteOverview aggregates site-wide view numbers for the dashboard.
type SiteOverview struct {
	TotalViews     int64        `json:"totalViews"`
	UniqueVisitors int64        `json:"uniqueVisitors"`
	TopArticles    []TopArticle `json:"topArticles"`
}

// TopArticle is one row of the most viewed table.
type TopArticle struct {
	ArticleID      string `json:"articleId"`
	Title          string `json:"title"`
	Views          int64  `json:"views"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

// Overview sums views and lists the top articles.
func (s *AnalyticsService) Overview(ctx context.Context, limit int) (SiteOverview, error) {
	limit = normalizePerPage(limit, 5)
	var overview SiteOverview
	gdb := s.db.WithContext(ctx)

	if err := gdb.Model(&db.Article{}).
		Select("COALESCE(SUM(views), 0)").
		Scan(&overview.TotalViews).Error; err != nil {
		return overview, err
	}
	if err := gdb.Model(&db.ArticleVisit{}).
		Distinct("visitor_id").
		Count(&overview.UniqueVisitors).Error; err != nil {
		return overview, err
	}

	overview.TopArticles = []TopArticle{}
	if err := gdb.Table("articles a").
		Select("a.id AS article_id, a.title, a.views, COUNT(v.id) AS unique_visitors").
		Joins("LEFT JOIN article_visits v ON v.article_id = a.id").
		Where("a.deleted_at IS NULL AND a.views > 0").
		Group("a.id, a.title, a.views").
		Order("a.views DESC").
		Limit(limit).
		Scan(&overview.TopArticles).Error; err != nil {
		return overview, err
	}
	return overview, nil
}
