package model

import "time"

// Setting is a single persisted UI/runtime preference (dark mode, webhook
// override), keyed by name.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// Well-known setting keys.
const (
	SettingDarkMode   = "dark_mode"
	SettingWebhookURL = "webhook_url"
)
