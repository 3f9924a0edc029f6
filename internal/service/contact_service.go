package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sachpatra/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound      = errors.New("contact submission not found")
	ErrContactInvalid       = errors.New("name, email and message are required")
	ErrContactTypeInvalid   = errors.New("invalid inquiry type")
	ErrContactStatusInvalid = errors.New("invalid contact status")
)

const subscriberBuffer = 8

// ContactService stores contact-form submissions and forwards new ones to
// live inbox subscribers.
type ContactService struct {
	db *gorm.DB

	mu          sync.Mutex
	subscribers map[chan db.ContactSubmission]struct{}
}

// NewContactService creates a ContactService.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb, subscribers: make(map[chan db.ContactSubmission]struct{})}
}

// ContactInput is the public form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Submit validates and stores a submission, then notifies subscribers.
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*db.ContactSubmission, error) {
	name := strings.TrimSpace(input.Name)
	message := strings.TrimSpace(input.Message)
	if name == "" || message == "" || strings.TrimSpace(input.Email) == "" {
		return nil, ErrContactInvalid
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	kind := strings.ToLower(strings.TrimSpace(input.Type))
	if kind == "" {
		kind = db.ContactTypeGeneral
	}
	if !db.ValidContactType(kind) {
		return nil, ErrContactTypeInvalid
	}

	submission := db.ContactSubmission{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(input.Subject),
		Message: message,
		Type:    kind,
		Status:  db.ContactStatusNew,
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return nil, err
	}
	s.publish(submission)
	return &submission, nil
}

// Subscribe returns a channel receiving new submissions and a function that
// cancels the subscription. Slow subscribers miss messages rather than block.
func (s *ContactService) Subscribe() (<-chan db.ContactSubmission, func()) {
	ch := make(chan db.ContactSubmission, subscriberBuffer)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *ContactService) publish(submission db.ContactSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- submission:
		default:
		}
	}
}

// ContactFilter narrows the admin inbox.
type ContactFilter struct {
	Status string
	Type   string
}

// List returns submissions newest first.
func (s *ContactService) List(ctx context.Context, filter ContactFilter) ([]db.ContactSubmission, error) {
	query := s.db.WithContext(ctx).Model(&db.ContactSubmission{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if kind := strings.TrimSpace(filter.Type); kind != "" {
		query = query.Where("type = ?", kind)
	}
	var rows []db.ContactSubmission
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ContactUpdate changes moderation fields. Nil fields are left alone.
type ContactUpdate struct {
	Status     *string `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

// Update applies a ContactUpdate.
func (s *ContactService) Update(ctx context.Context, id string, update ContactUpdate) (*db.ContactSubmission, error) {
	var submission db.ContactSubmission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	if update.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*update.Status))
		if !db.ValidContactStatus(status) {
			return nil, ErrContactStatusInvalid
		}
		submission.Status = status
	}
	if update.AdminNotes != nil {
		submission.AdminNotes = strings.TrimSpace(*update.AdminNotes)
	}
	if err := s.db.WithContext(ctx).Save(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// Delete removes a submission.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&db.ContactSubmission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// CountNew feeds the dashboard.
func (s *ContactService) CountNew(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&db.ContactSubmission{}).Where("status = ?", db.ContactStatusNew).Count(&n).Error
	return n, err
}
