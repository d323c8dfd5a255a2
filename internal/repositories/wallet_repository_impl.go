package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kobo/internal/models"
	"kobo/internal/reference"
)

const createWalletAttempts = 3

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateForUser(ctx context.Context, userID uint) (*models.Wallet, error) {
	var lastErr error
	for attempt := 0; attempt < createWalletAttempts; attempt++ {
		wallet := &models.Wallet{
			UserID:        userID,
			AccountNumber: reference.AccountNumber(),
			Balance:       decimal.Zero,
			Currency:      "NGN",
			IsActive:      true,
		}
		err := r.db.WithContext(ctx).Create(wallet).Error
		if err == nil {
			return wallet, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create wallet: %w", err)
		}
		// The unique index on user_id means a second wallet for the same user
		// is not an account-number collision and must not be retried.
		var existing models.Wallet
		if r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error == nil {
			return nil, ErrDuplicateWallet
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to create wallet: %w", lastErr)
}

func (r *walletRepository) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) CompareAndSetBalance(ctx context.Context, id uint, expected, next decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ? AND balance = ?", id, expected).
		Update("balance", next)
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the wallet is gone or another writer moved the balance first.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Wallet{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}
		if count == 0 {
			return ErrWalletNotFound
		}
		return ErrBalanceConflict
	}
	return nil
}

func (r *walletRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}
