package model

import "time"

// CallLog records one remote webhook call and its outcome, so failed flows
// can be inspected after the fact.
type CallLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Action     string    `gorm:"size:32;not null;index" json:"action"`
	Outcome    string    `gorm:"size:16;not null" json:"outcome"` // "ok" or an error class
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
