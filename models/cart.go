package models

import "time"

// CartItem is one cart entry. Appending is a single INSERT and the
// autoincrement id carries insertion order, so there is no
// read-modify-write on a serialized cart value anywhere. The same
// offer may appear in multiple rows for one user.
type CartItem struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  uint      `gorm:"index;not null" json:"user_id"`
	OfferID uint      `gorm:"not null" json:"offer_id"`
	AddedAt time.Time `json:"added_at"`
}
