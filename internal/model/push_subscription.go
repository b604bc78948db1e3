package model

import "time"

// PushSubscription holds the information for a staff browser push
// subscription. Every subscriber is notified of every booking change; there
// is no per-attendant fan-out.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
