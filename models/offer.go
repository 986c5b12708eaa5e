package models

import "time"

// Offer is a seller's listing. Offers are immutable once created; the
// cart stores only their ids, so price reads always hit this table.
type Offer struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerUsername string    `gorm:"not null;index" json:"seller_username"`
	Title          string    `gorm:"not null" json:"title"`
	Price          float64   `gorm:"not null" json:"price"`
	ImagePath      string    `json:"image_path"`
	CreatedAt      time.Time `json:"created_at"`
}
