package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sachpatra/internal/db"
	"github.com/sachpatra/internal/locale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSiteName is served until an admin saves one.
const DefaultSiteName = "सचपत्र"

var (
	ErrSiteNameRequired    = errors.New("site name is required")
	ErrLanguageUnsupported = errors.New("language must be hi or en")
	ErrFooterTooLong       = errors.New("footer text is too long")
)

const maxFooterLength = 500

// SystemSettings is the admin-editable site configuration.
type SystemSettings struct {
	SiteName        string `json:"siteName"`
	DefaultLanguage string `json:"defaultLanguage"`
	FooterText      string `json:"footerText"`
}

// SystemSettingsInput updates settings; nil fields are left unchanged.
type SystemSettingsInput struct {
	SiteName        *string `json:"siteName"`
	DefaultLanguage *string `json:"defaultLanguage"`
	FooterText      *string `json:"footerText"`
}

// SystemSettingService reads and writes key/value settings.
type SystemSettingService struct {
	db       *gorm.DB
	fallback string
}

// NewSystemSettingService builds the service. fallbackLanguage is used when
// no default_language row exists.
func NewSystemSettingService(gdb *gorm.DB, fallbackLanguage string) *SystemSettingService {
	return &SystemSettingService{db: gdb, fallback: languageOrDefault(fallbackLanguage)}
}

// GetSettings returns stored settings merged over defaults.
func (s *SystemSettingService) GetSettings(ctx context.Context) (SystemSettings, error) {
	settings := SystemSettings{SiteName: DefaultSiteName, DefaultLanguage: s.fallback}

	var rows []db.SystemSetting
	if err := s.db.WithContext(ctx).Where("key IN ?", []string{
		db.SettingKeySiteName,
		db.SettingKeyDefaultLanguage,
		db.SettingKeyFooterText,
	}).Find(&rows).Error; err != nil {
		return settings, err
	}

	for _, row := range rows {
		switch row.Key {
		case db.SettingKeySiteName:
			if v := strings.TrimSpace(row.Value); v != "" {
				settings.SiteName = v
			}
		case db.SettingKeyDefaultLanguage:
			if v := locale.NormalizeLanguage(row.Value); v != "" {
				settings.DefaultLanguage = v
			}
		case db.SettingKeyFooterText:
			settings.FooterText = row.Value
		}
	}
	return settings, nil
}

// UpdateSettings validates and persists the given fields in one transaction.
func (s *SystemSettingService) UpdateSettings(ctx context.Context, input SystemSettingsInput) (SystemSettings, error) {
	values := map[string]string{}
	if input.SiteName != nil {
		name := strings.TrimSpace(*input.SiteName)
		if name == "" {
			return SystemSettings{}, ErrSiteNameRequired
		}
		values[db.SettingKeySiteName] = name
	}
	if input.DefaultLanguage != nil {
		lang := locale.NormalizeLanguage(*input.DefaultLanguage)
		if lang == "" {
			return SystemSettings{}, ErrLanguageUnsupported
		}
		values[db.SettingKeyDefaultLanguage] = lang
	}
	if input.FooterText != nil {
		footer := strings.TrimSpace(*input.FooterText)
		if utf8.RuneCountInString(footer) > maxFooterLength {
			return SystemSettings{}, ErrFooterTooLong
		}
		values[db.SettingKeyFooterText] = footer
	}

	if len(values) > 0 {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for key, value := range values {
				if err := upsertSetting(tx, key, value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return SystemSettings{}, err
		}
	}
	return s.GetSettings(ctx)
}

// PreferredLanguage is the site-wide default language, used by the locale
// middleware when a request carries no preference.
func (s *SystemSettingService) PreferredLanguage(ctx context.Context) string {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return s.fallback
	}
	return settings.DefaultLanguage
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SystemSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
