package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kobo/internal/models"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

const walletKeyPrefix = "wallet:id:"

// WalletCache caches wallets by id with a fixed TTL.
type WalletCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWalletCache(client *redis.Client, ttl time.Duration) *WalletCache {
	return &WalletCache{client: client, ttl: ttl}
}

func walletKey(walletID uint) string {
	return fmt.Sprintf("%s%d", walletKeyPrefix, walletID)
}

func (c *WalletCache) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	data, err := c.client.Get(ctx, walletKey(walletID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached wallet: %w", err)
	}
	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached wallet: %w", err)
	}
	return &wallet, nil
}

func (c *WalletCache) SetWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %w", err)
	}
	return c.client.Set(ctx, walletKey(wallet.ID), data, c.ttl).Err()
}

func (c *WalletCache) InvalidateWallet(ctx context.Context, walletID uint) error {
	return c.client.Del(ctx, walletKey(walletID)).Err()
}

// FlushAll clears the cache; used at startup so a restart never serves
// balances from a previous process.
func (c *WalletCache) FlushAll(ctx context.Context) error {
	return c.client.FlushAll(ctx).Err()
}
