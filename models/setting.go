package models

// Setting is a key/value row for store info and the customer opening screen.
type Setting struct {
	Key   string `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

// Default settings seeded on first boot.
var DefaultSettings = map[string]string{
	"opening_message":      "ご来店ありがとうございます！",
	"opening_writing_mode": "horizontal-tb",
	"opening_effect":       "fade",
	"opening_duration":     "5",
	"store_name":           "",
	"store_address":        "",
	"store_tel":            "",
	"store_receipt_note":   "",
}
