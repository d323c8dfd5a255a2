// Package ledger implements the transaction-processing engine. Every balance
// mutation reads a snapshot, computes the next balance in process, and commits
// the snapshot-to-next transition together with the immutable ledger entry as
// one atomic unit, guarded by a compare-and-set on the snapshot. Two
// concurrent debits can therefore never both subtract from the same starting
// balance; the loser rereads and retries from the precondition checks.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kobo/internal/models"
	"kobo/internal/reference"
	"kobo/internal/repositories"
)

type service struct {
	wallets repositories.WalletRepository
	entries repositories.TransactionRepository
	units   repositories.UnitOfWork
	cache   WalletCache
	config  Config
}

// NewService creates the ledger engine. The service holds no mutable state
// and is shared across concurrent request handlers.
func NewService(
	wallets repositories.WalletRepository,
	entries repositories.TransactionRepository,
	units repositories.UnitOfWork,
	cache WalletCache,
	config Config,
) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if entries == nil {
		panic("transaction repository is required")
	}
	if units == nil {
		panic("unit of work is required")
	}
	if cache == nil {
		cache = NoopCache{}
	}
	if config.MaxCommitAttempts <= 0 {
		config.MaxCommitAttempts = DefaultCommitAttempts
	}
	if config.Fees == nil {
		config.Fees = ZeroFees{}
	}

	return &service{
		wallets: wallets,
		entries: entries,
		units:   units,
		cache:   cache,
		config:  config,
	}
}

func (s *service) Fund(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*OperationResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = defaultFundingDescription
	}

	var result *OperationResult
	err := s.retryCommit(func() error {
		wallet, err := s.loadWallet(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.IsActive {
			return ErrWalletInactive
		}

		before := wallet.Balance
		after := before.Add(amount)
		entry := &models.Transaction{
			Reference:     reference.TransactionRef(),
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeFunding,
			Status:        models.TransactionStatusCompleted,
			Amount:        amount,
			Fee:           decimal.Zero,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			Metadata:      models.JSON{"source": "external"},
		}

		if err := s.units.Atomically(ctx, func(tx repositories.Stores) error {
			if err := tx.Transactions.Append(ctx, entry); err != nil {
				return err
			}
			return tx.Wallets.CompareAndSetBalance(ctx, wallet.ID, before, after)
		}); err != nil {
			return err
		}

		result = &OperationResult{Transaction: entry, NewBalance: after}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, walletID)
	return result, nil
}

func (s *service) Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*OperationResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = defaultWithdrawalDescription
	}

	var result *OperationResult
	err := s.retryCommit(func() error {
		wallet, err := s.loadWallet(ctx, walletID)
		if err != nil {
			return err
		}
		if !wallet.IsActive {
			return ErrWalletInactive
		}
		if wallet.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		before := wallet.Balance
		after := before.Sub(amount)
		entry := &models.Transaction{
			Reference:     reference.TransactionRef(),
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeWithdrawal,
			Status:        models.TransactionStatusCompleted,
			Amount:        amount.Neg(),
			Fee:           decimal.Zero,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			Metadata:      models.JSON{"destination": "external"},
		}

		if err := s.units.Atomically(ctx, func(tx repositories.Stores) error {
			if err := tx.Transactions.Append(ctx, entry); err != nil {
				return err
			}
			return tx.Wallets.CompareAndSetBalance(ctx, wallet.ID, before, after)
		}); err != nil {
			return err
		}

		result = &OperationResult{Transaction: entry, NewBalance: after}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, walletID)
	return result, nil
}

type balanceUpdate struct {
	id             uint
	expected, next decimal.Decimal
}

func (s *service) Transfer(ctx context.Context, sourceWalletID uint, toAccountNumber string, amount decimal.Decimal, description string) (*TransferResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var result *TransferResult
	var destWalletID uint
	err := s.retryCommit(func() error {
		source, err := s.loadWallet(ctx, sourceWalletID)
		if err != nil {
			return err
		}
		dest, err := s.wallets.GetByAccountNumber(ctx, toAccountNumber)
		if err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrDestinationNotFound
			}
			return err
		}
		if source.ID == dest.ID {
			return ErrSameWallet
		}
		if !source.IsActive || !dest.IsActive {
			return ErrWalletInactive
		}

		fee := s.config.Fees.TransferFee(amount)
		total := amount.Add(fee)
		if source.Balance.LessThan(total) {
			return ErrInsufficientBalance
		}

		base := reference.TransactionRef()
		correlation := uuid.NewString()
		sourceAfter := source.Balance.Sub(total)
		destAfter := dest.Balance.Add(amount)

		debitDescription := description
		if debitDescription == "" {
			debitDescription = "Transfer to " + dest.AccountNumber
		}

		debit := &models.Transaction{
			Reference:         base + "_DEBIT",
			WalletID:          source.ID,
			RecipientWalletID: &dest.ID,
			Type:              models.TransactionTypeTransfer,
			Status:            models.TransactionStatusCompleted,
			Amount:            amount.Neg(),
			Fee:               fee.Neg(),
			BalanceBefore:     source.Balance,
			BalanceAfter:      sourceAfter,
			Description:       debitDescription,
			Metadata:          models.JSON{"transfer_reference": correlation},
		}
		credit := &models.Transaction{
			Reference:         base + "_CREDIT",
			WalletID:          dest.ID,
			RecipientWalletID: &source.ID,
			Type:              models.TransactionTypeTransfer,
			Status:            models.TransactionStatusCompleted,
			Amount:            amount,
			Fee:               decimal.Zero,
			BalanceBefore:     dest.Balance,
			BalanceAfter:      destAfter,
			Description:       "Transfer from " + source.AccountNumber,
			Metadata:          models.JSON{"transfer_reference": correlation},
		}

		// Balance updates go out in ascending wallet id order so a store that
		// takes row locks instead of compare-and-setting cannot deadlock
		// against the opposite transfer direction.
		updates := []balanceUpdate{
			{id: source.ID, expected: source.Balance, next: sourceAfter},
			{id: dest.ID, expected: dest.Balance, next: destAfter},
		}
		if updates[0].id > updates[1].id {
			updates[0], updates[1] = updates[1], updates[0]
		}

		if err := s.units.Atomically(ctx, func(tx repositories.Stores) error {
			if err := tx.Transactions.Append(ctx, debit); err != nil {
				return err
			}
			if err := tx.Transactions.Append(ctx, credit); err != nil {
				return err
			}
			for _, u := range updates {
				if err := tx.Wallets.CompareAndSetBalance(ctx, u.id, u.expected, u.next); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}

		destWalletID = dest.ID
		result = &TransferResult{
			DebitTransaction:  debit,
			CreditTransaction: credit,
			NewBalance:        sourceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, sourceWalletID)
	s.invalidate(ctx, destWalletID)
	return result, nil
}

func (s *service) Balance(ctx context.Context, walletID uint) (*BalanceDetails, error) {
	wallet, err := s.cache.GetWallet(ctx, walletID)
	if err != nil {
		wallet, err = s.loadWallet(ctx, walletID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetWallet(ctx, wallet); err != nil {
			log.Printf("failed to cache wallet %d: %v", walletID, err)
		}
	}

	return &BalanceDetails{
		AccountNumber: wallet.AccountNumber,
		Balance:       wallet.Balance,
		Currency:      wallet.Currency,
		IsActive:      wallet.IsActive,
	}, nil
}

func (s *service) History(ctx context.Context, walletID uint, page, limit int) (*HistoryPage, error) {
	if _, err := s.loadWallet(ctx, walletID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	entries, total, err := s.entries.ListByWallet(ctx, walletID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	if entries == nil {
		entries = []models.Transaction{}
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryPage{
		Entries: entries,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// retryCommit runs one operation attempt and retries it from its precondition
// checks when the commit lost a compare-and-set race or generated a colliding
// reference. Any other error, including validation failures, is returned
// as-is.
func (s *service) retryCommit(attempt func() error) error {
	var err error
	for i := 0; i < s.config.MaxCommitAttempts; i++ {
		err = attempt()
		if errors.Is(err, repositories.ErrBalanceConflict) || errors.Is(err, repositories.ErrDuplicateReference) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrConflict, s.config.MaxCommitAttempts, err)
}

func (s *service) loadWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) invalidate(ctx context.Context, walletID uint) {
	if err := s.cache.InvalidateWallet(ctx, walletID); err != nil {
		log.Printf("failed to invalidate wallet cache %d: %v", walletID, err)
	}
}

// validateAmount accepts strictly positive amounts with at most two decimal
// places, the precision the ledger persists.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}
