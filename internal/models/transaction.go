package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeFunding    = "funding"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeWithdrawal = "withdrawal"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction is a single immutable ledger entry. Amount is signed: positive
// for credits and negative for debits to WalletID. BalanceBefore/BalanceAfter
// snapshot the wallet balance around the entry, so replaying a wallet's entries
// in creation order reproduces its current balance.
type Transaction struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	Reference         string          `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	WalletID          uint            `gorm:"index;not null" json:"wallet_id"`
	RecipientWalletID *uint           `gorm:"index" json:"recipient_wallet_id,omitempty"`
	Type              string          `gorm:"size:20;index;not null" json:"type"`
	Status            string          `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Fee               decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"fee"`
	BalanceBefore     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_before"`
	BalanceAfter      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	Description       string          `gorm:"type:text" json:"description"`
	Metadata          JSON            `gorm:"type:jsonb" json:"metadata"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
