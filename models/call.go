package models

import "time"

// Call types
const (
	CallNormal   = "normal"
	CallCheckout = "checkout"
)

// Call is a pending staff-attention request. At most one call exists per
// table; a newer call overwrites the previous one.
type Call struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	TableID  uint      `gorm:"not null;uniqueIndex" json:"table_id"`
	CallType string    `gorm:"type:varchar(20);not null;default:'normal'" json:"call_type"`
	CallTime time.Time `gorm:"not null" json:"call_time"`
}

// IsValidCallType reports whether t names a known call type.
func IsValidCallType(t string) bool {
	return t == CallNormal || t == CallCheckout
}
