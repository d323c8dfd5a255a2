package ledger

import (
	"github.com/shopspring/decimal"

	"kobo/internal/models"
)

// Default configuration values
const (
	DefaultCommitAttempts = 5
	DefaultPageLimit      = 20
	MaxPageLimit          = 100
)

// Default descriptions, matching what callers see when they omit one.
const (
	defaultFundingDescription    = "Wallet funding"
	defaultWithdrawalDescription = "Wallet withdrawal"
)

// Config holds ledger engine settings.
type Config struct {
	// MaxCommitAttempts bounds the compare-and-set retry loop. Exhaustion
	// surfaces ErrConflict instead of retrying forever.
	MaxCommitAttempts int
	// Fees computes the transfer fee; the zero-fee schedule is the default.
	Fees FeeSchedule
}

// FeeSchedule is the extension point for operation fees.
type FeeSchedule interface {
	TransferFee(amount decimal.Decimal) decimal.Decimal
}

// ZeroFees charges nothing on any operation.
type ZeroFees struct{}

func (ZeroFees) TransferFee(decimal.Decimal) decimal.Decimal { return decimal.Zero }

// OperationResult is the outcome of a funding or withdrawal.
type OperationResult struct {
	Transaction *models.Transaction
	NewBalance  decimal.Decimal
}

// TransferResult is the outcome of a transfer: the two cross-referenced
// ledger entries plus the source wallet's new balance.
type TransferResult struct {
	DebitTransaction  *models.Transaction
	CreditTransaction *models.Transaction
	NewBalance        decimal.Decimal
}

// BalanceDetails is the read-only balance view of a wallet.
type BalanceDetails struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	IsActive      bool            `json:"is_active"`
}

// Pagination describes one page of a wallet's history.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// HistoryPage is a page of ledger entries, newest first.
type HistoryPage struct {
	Entries    []models.Transaction `json:"transactions"`
	Pagination Pagination           `json:"pagination"`
}
