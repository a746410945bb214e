package models

import "time"

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NameJP       string    `gorm:"column:name_jp;type:varchar(100);not null;unique" json:"name_jp"`
	NameEn       *string   `gorm:"type:varchar(100)" json:"name_en"`
	DisplayOrder int       `gorm:"not null;default:99" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
