package db

import "time"

// SystemSetting stores admin-editable key/value settings.
type SystemSetting struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"size:100;uniqueIndex;not null"`
	Value     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name.
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeySiteName is the public site name.
	SettingKeySiteName = "site_name"
	// SettingKeyDefaultLanguage is the language served when a visitor has no preference.
	SettingKeyDefaultLanguage = "default_language"
	// SettingKeyFooterText is the public footer line.
	SettingKeyFooterText = "footer_text"
)
