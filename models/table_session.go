package models

import "time"

// Session statuses
const (
	SessionActive  = "active"
	SessionExpired = "expired"
)

// TableSession scopes a customer page to one table. The access token is
// handed out via QR code by hall staff; checkout expires it.
type TableSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableID     uint      `gorm:"not null;index" json:"table_id"`
	AccessToken string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"access_token"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
