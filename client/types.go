package client

import "time"

// Wire types mirroring the backend's JSON. The client keeps its own copies
// so a screen binary does not drag the ORM layer along.

type Order struct {
	ID         uint       `json:"id"`
	TableID    uint       `json:"table_id"`
	Status     string     `json:"status"`
	TotalPrice float64    `json:"total_price"`
	CreatedAt  time.Time  `json:"created_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	Items      []Item     `json:"items"`
}

type Item struct {
	ID       uint    `json:"id"`
	OrderID  uint    `json:"order_id"`
	ItemName string  `json:"item_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Status   string  `json:"item_status"`
}

// Item statuses, matching the backend taxonomy.
const (
	StatusCooking   = "cooking"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

type Call struct {
	TableID  uint      `json:"table_id"`
	CallType string    `json:"call_type"`
	CallTime time.Time `json:"call_time"`
}

// Call types
const (
	CallNormal   = "normal"
	CallCheckout = "checkout"
)

type TableSummary struct {
	TableID    uint    `json:"table_id"`
	Orders     []Order `json:"orders"`
	GrandTotal float64 `json:"grand_total"`
	CallType   *string `json:"call_type"`
	AllServed  bool    `json:"all_served"`
}

type OrderHistory struct {
	Items      []Item  `json:"items"`
	TotalPrice float64 `json:"total_price"`
}

type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	NameEn      *string `json:"name_en"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	IsSoldOut   bool    `json:"is_sold_out"`
	Category    string  `json:"category"`
}

type Category struct {
	ID           uint    `json:"id"`
	NameJP       string  `json:"name_jp"`
	NameEn       *string `json:"name_en"`
	DisplayOrder int     `json:"display_order"`
}

// OrderLine is one line of a customer submission.
type OrderLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
