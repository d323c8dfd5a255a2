package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Stores bundles the repositories bound to one database transaction.
type Stores struct {
	Wallets      WalletRepository
	Transactions TransactionRepository
	Users        UserRepository
}

// UnitOfWork runs a function against all stores as a single atomic unit.
// Any error rolls the whole unit back; there is no partial commit.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(tx Stores) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Atomically(ctx context.Context, fn func(tx Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Stores{
			Wallets:      &walletRepository{db: tx},
			Transactions: &transactionRepository{db: tx},
			Users:        &userRepository{db: tx},
		})
	})
}
