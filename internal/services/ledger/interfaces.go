package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"kobo/internal/models"
)

// Service is the ledger engine. It is stateless apart from its store
// references and safe for concurrent use.
type Service interface {
	Fund(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*OperationResult, error)
	Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*OperationResult, error)
	Transfer(ctx context.Context, sourceWalletID uint, toAccountNumber string, amount decimal.Decimal, description string) (*TransferResult, error)
	Balance(ctx context.Context, walletID uint) (*BalanceDetails, error)
	History(ctx context.Context, walletID uint, page, limit int) (*HistoryPage, error)
}

// WalletCache is the read-path cache the engine invalidates after commits.
type WalletCache interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}

// NoopCache satisfies WalletCache without caching anything.
type NoopCache struct{}

func (NoopCache) GetWallet(context.Context, uint) (*models.Wallet, error) {
	return nil, errNoCache
}
func (NoopCache) SetWallet(context.Context, *models.Wallet) error { return nil }
func (NoopCache) InvalidateWallet(context.Context, uint) error    { return nil }
