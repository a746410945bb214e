package models

import "time"

type Product struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null;unique" json:"name"`
	NameEn        *string    `gorm:"type:varchar(255)" json:"name_en"`
	Price         float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Description   string     `gorm:"type:text" json:"description"`
	DescriptionEn *string    `gorm:"type:text" json:"description_en"`
	ImagePath     string     `gorm:"type:varchar(255)" json:"image_path"`
	IsSoldOut     bool       `gorm:"not null;default:false" json:"is_sold_out"`
	Categories    []Category `gorm:"many2many:product_categories" json:"categories"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}
