package models

import (
	"time"
)

// Item statuses. An item only moves forward (cooking -> ready -> served) or
// sideways into cancelled while it is still cooking.
const (
	ItemCooking   = "cooking"
	ItemReady     = "ready"
	ItemServed    = "served"
	ItemCancelled = "cancelled"
)

type OrderItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OrderID   uint       `gorm:"not null;index" json:"order_id"`
	Order     Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ItemName  string     `gorm:"type:varchar(255);not null" json:"item_name"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	Price     float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Status    string     `gorm:"type:varchar(20);not null;default:'cooking'" json:"item_status"`
	ReadyAt   *time.Time `json:"ready_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// IsValidItemStatus reports whether s names a known item status.
func IsValidItemStatus(s string) bool {
	switch s {
	case ItemCooking, ItemReady, ItemServed, ItemCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an item may move from its current status to
// the requested one. Backward moves and skips are never allowed.
func CanTransition(from, to string) bool {
	switch from {
	case ItemCooking:
		return to == ItemReady || to == ItemCancelled
	case ItemReady:
		return to == ItemServed
	}
	return false
}
