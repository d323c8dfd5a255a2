// Package repositories provides the data access layer. It owns all database
// operations and translates driver errors into the sentinels the services
// branch on.
package repositories

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"kobo/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicateWallet     = errors.New("wallet already exists")
	ErrBalanceConflict     = errors.New("wallet balance changed concurrently")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("transaction reference already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateUser       = errors.New("user already exists")
)

// WalletRepository defines wallet persistence operations. Balances are never
// written directly; CompareAndSetBalance is the only mutation path.
type WalletRepository interface {
	// CreateForUser inserts a wallet for the user with a fresh account number,
	// zero balance and the default currency.
	CreateForUser(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Wallet, error)

	// CompareAndSetBalance updates the balance only if the stored value still
	// equals expected. Returns ErrBalanceConflict when a concurrent mutator
	// won the race, leaving the row untouched.
	CompareAndSetBalance(ctx context.Context, id uint, expected, next decimal.Decimal) error

	// SetActive soft-retires or reinstates a wallet.
	SetActive(ctx context.Context, id uint, active bool) error
}

// TransactionRepository defines the append-only ledger store. Entries are
// never updated or removed after Append.
type TransactionRepository interface {
	Append(ctx context.Context, entry *models.Transaction) error
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	// ListByWallet returns entries newest-first along with the total count for
	// the wallet.
	ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
