package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // session created, awaiting provider callback
	OrderStatusPaid      OrderStatus = "paid"      // provider reported a completed payment
	OrderStatusCancelled OrderStatus = "cancelled" // provider reported cancel/expiry
)

// OrderLine is one priced line as sent to the payment provider.
// Stored on the order as a JSON snapshot so the amounts charged stay
// auditable even after offer prices change.
type OrderLine struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"` // minor units (cents)
	Currency   string `json:"currency"`
	Quantity   int64  `json:"quantity"`
}

type Order struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Ref         string         `gorm:"uniqueIndex;not null" json:"ref"`
	AmountMinor int64          `json:"amount_minor"`
	Currency    string         `gorm:"type:VARCHAR(3)" json:"currency"`
	Status      OrderStatus    `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Lines       datatypes.JSON `json:"lines"`
	ProviderRef string         `gorm:"index" json:"provider_ref"`
	CreatedAt   time.Time      `json:"created_at"`
}
