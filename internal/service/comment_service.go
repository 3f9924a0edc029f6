package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentInvalid  = errors.New("name and comment are required")
)

const maxCommentLength = 2000

var commentPolicy = bluemonday.StrictPolicy()

// CommentService stores visitor comments and their moderation state.
type CommentService struct {
	db          *gorm.DB
	autoApprove bool
}

// NewCommentService creates a CommentService. With autoApprove set new
// comments are visible immediately; otherwise they wait for moderation.
func NewCommentService(gdb *gorm.DB, autoApprove bool) *CommentService {
	return &CommentService{db: gdb, autoApprove: autoApprove}
}

// CommentInput is the public comment form.
type CommentInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Comment string `json:"comment"`
}

// Create stores a comment on a published article and bumps its counter when
// the comment is visible.
func (s *CommentService) Create(ctx context.Context, articleID string, input CommentInput) (*db.Comment, error) {
	name := strings.TrimSpace(commentPolicy.Sanitize(input.Name))
	body := strings.TrimSpace(commentPolicy.Sanitize(input.Comment))
	if name == "" || body == "" {
		return nil, ErrCommentInvalid
	}
	if runes := []rune(body); len(runes) > maxCommentLength {
		body = string(runes[:maxCommentLength])
	}
	email := ""
	if strings.TrimSpace(input.Email) != "" {
		normalized, err := normalizeEmail(input.Email)
		if err != nil {
			return nil, err
		}
		email = normalized
	}

	comment := db.Comment{ArticleID: articleID, Name: name, Email: email, Comment: body, Approved: s.autoApprove}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&db.Article{}).Where("id = ? AND status = ?", articleID, db.StatusPublished).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrArticleNotFound
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if comment.Approved {
			return adjustCommentCount(tx, articleID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Approved lists visible comments of an article, oldest first.
func (s *CommentService) Approved(ctx context.Context, articleID string) ([]db.Comment, error) {
	var rows []db.Comment
	if err := s.db.WithContext(ctx).
		Where("article_id = ? AND approved = ?", articleID, true).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// All lists comments for moderation. approved nil means any state.
func (s *CommentService) All(ctx context.Context, approved *bool) ([]db.Comment, error) {
	query := s.db.WithContext(ctx).Model(&db.Comment{})
	if approved != nil {
		query = query.Where("approved = ?", *approved)
	}
	var rows []db.Comment
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountPending feeds the dashboard.
func (s *CommentService) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&db.Comment{}).Where("approved = ?", false).Count(&n).Error
	return n, err
}

// SetApproved approves or rejects a comment and keeps the article's counter
// in step.
func (s *CommentService) SetApproved(ctx context.Context, id string, approved bool) (*db.Comment, error) {
	var comment db.Comment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if comment.Approved == approved {
			return nil
		}
		if err := tx.Model(&comment).Update("approved", approved).Error; err != nil {
			return err
		}
		comment.Approved = approved
		delta := 1
		if !approved {
			delta = -1
		}
		return adjustCommentCount(tx, comment.ArticleID, delta)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment db.Comment
		if err := tx.First(&comment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		if comment.Approved {
			return adjustCommentCount(tx, comment.ArticleID, -1)
		}
		return nil
	})
}

func adjustCommentCount(tx *gorm.DB, articleID string, delta int) error {
	expr := gorm.Expr("comments_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")
	}
	return tx.Model(&db.Article{}).Unscoped().Where("id = ?", articleID).UpdateColumn("comments_count", expr).Error
}
