package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a per-user monetary account. Every user owns exactly one wallet,
// enforced by the unique index on UserID. The balance may only be changed
// through the ledger engine's compare-and-set commit path.
type Wallet struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	AccountNumber string          `gorm:"size:20;uniqueIndex;not null" json:"account_number"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Currency      string          `gorm:"size:3;not null;default:'NGN'" json:"currency"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
