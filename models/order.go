package models

import (
	"time"
)

// Order statuses
const (
	OrderActive = "active"
	OrderPaid   = "paid"
)

type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TableID    uint        `gorm:"not null;index" json:"table_id"`
	Status     string      `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	TotalPrice float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_price"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null" json:"updated_at"`
	PaidAt     *time.Time  `json:"paid_at,omitempty"`
	PrintedAt  *time.Time  `json:"printed_at,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// LiveItems returns the items that still count toward the bill.
func (o *Order) LiveItems() []OrderItem {
	live := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		if item.Status != ItemCancelled {
			live = append(live, item)
		}
	}
	return live
}

// AllServed reports whether every non-cancelled item has been served.
func (o *Order) AllServed() bool {
	for _, item := range o.Items {
		if item.Status != ItemCancelled && item.Status != ItemServed {
			return false
		}
	}
	return true
}
