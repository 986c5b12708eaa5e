package models

import "time"

// Session backs an issued token. The JWT a client holds carries this
// row's id; deleting the row revokes the token regardless of its
// signature. No expiry in core — CreatedAt is there for an external
// sweeper.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
