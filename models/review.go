package models

import "time"

type Review struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    string   `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	User      *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductID uint     `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Rating    int      `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string   `gorm:"size:500;not null" json:"comment"`
	// Verified is set at creation time: the author had a shipped or delivered
	// order containing this product.
	Verified  bool      `gorm:"default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
