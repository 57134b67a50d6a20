package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  uint      `gorm:"index;not null" json:"category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Brand       string    `json:"brand"`
	Image       string    `gorm:"default:'https://via.placeholder.com/300'" json:"image"`
	Active      bool      `gorm:"default:true" json:"active"`
	// AvgRating and ReviewCount are derived from reviews, never set by input.
	AvgRating   float64   `gorm:"default:0" json:"avg_rating"`
	ReviewCount int       `gorm:"default:0" json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
