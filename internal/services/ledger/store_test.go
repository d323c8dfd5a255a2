package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"kobo/internal/models"
	"kobo/internal/reference"
	"kobo/internal/repositories"
)

// memStore is an in-memory implementation of the repositories used by the
// engine. A single mutex makes each unit of work atomic, and a snapshot taken
// at the start of every unit gives rollback-on-error, so the engine's
// concurrency behavior can be exercised with real goroutines.
type memStore struct {
	mu           sync.Mutex
	wallets      map[uint]*models.Wallet
	byAccount    map[string]uint
	users        map[uint]*models.User
	entries      []models.Transaction
	refs         map[string]struct{}
	nextWalletID uint
	nextEntryID  uint
	nextUserID   uint

	// beforeUnit runs at the start of the next atomic unit while the store
	// lock is held; used to simulate a concurrent writer sneaking in between
	// the engine's read and its commit.
	beforeUnit func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{
		wallets:   make(map[uint]*models.Wallet),
		byAccount: make(map[string]uint),
		users:     make(map[uint]*models.User),
		refs:      make(map[string]struct{}),
	}
}

func (s *memStore) addWallet(balance string, active bool) *models.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWalletID++
	s.nextUserID++
	w := &models.Wallet{
		ID:            s.nextWalletID,
		UserID:        s.nextUserID,
		AccountNumber: reference.AccountNumber(),
		Balance:       decimal.RequireFromString(balance),
		Currency:      "NGN",
		IsActive:      active,
	}
	s.wallets[w.ID] = w
	s.byAccount[w.AccountNumber] = w.ID
	copy := *w
	return &copy
}

func (s *memStore) walletBalance(id uint) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallets[id].Balance
}

func (s *memStore) entriesForWallet(id uint) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, e := range s.entries {
		if e.WalletID == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *memStore) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Repositories bound to the store. The inTx flag skips locking inside a unit
// of work, where the outer Atomically call already holds the mutex.

func (s *memStore) walletsRepo() repositories.WalletRepository {
	return &memWallets{s: s}
}

func (s *memStore) entriesRepo() repositories.TransactionRepository {
	return &memEntries{s: s}
}

type memWallets struct {
	s    *memStore
	inTx bool
}

func (r *memWallets) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memWallets) CreateForUser(ctx context.Context, userID uint) (*models.Wallet, error) {
	defer r.lock()()
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			return nil, repositories.ErrDuplicateWallet
		}
	}
	r.s.nextWalletID++
	w := &models.Wallet{
		ID:            r.s.nextWalletID,
		UserID:        userID,
		AccountNumber: reference.AccountNumber(),
		Balance:       decimal.Zero,
		Currency:      "NGN",
		IsActive:      true,
	}
	r.s.wallets[w.ID] = w
	r.s.byAccount[w.AccountNumber] = w.ID
	copy := *w
	return &copy, nil
}

func (r *memWallets) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	defer r.lock()()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copy := *w
	return &copy, nil
}

func (r *memWallets) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	defer r.lock()()
	for _, w := range r.s.wallets {
		if w.UserID == userID {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repositories.ErrWalletNotFound
}

func (r *memWallets) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.Wallet, error) {
	defer r.lock()()
	id, ok := r.s.byAccount[accountNumber]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	copy := *r.s.wallets[id]
	return &copy, nil
}

func (r *memWallets) CompareAndSetBalance(ctx context.Context, id uint, expected, next decimal.Decimal) error {
	defer r.lock()()
	w, ok := r.s.wallets[id]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	if !w.Balance.Equal(expected) {
		return repositories.ErrBalanceConflict
	}
	w.Balance = next
	return nil
}

func (r *memWallets) SetActive(ctx context.Context, id uint, active bool) error {
	defer r.lock()()
	w, ok := r.s.wallets[id]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	w.IsActive = active
	return nil
}

type memEntries struct {
	s    *memStore
	inTx bool
}

func (r *memEntries) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memEntries) Append(ctx context.Context, entry *models.Transaction) error {
	defer r.lock()()
	if _, ok := r.s.refs[entry.Reference]; ok {
		return repositories.ErrDuplicateReference
	}
	r.s.nextEntryID++
	entry.ID = r.s.nextEntryID
	entry.CreatedAt = time.Now()
	r.s.refs[entry.Reference] = struct{}{}
	r.s.entries = append(r.s.entries, *entry)
	return nil
}

func (r *memEntries) GetByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	defer r.lock()()
	for i := range r.s.entries {
		if r.s.entries[i].Reference == ref {
			copy := r.s.entries[i]
			return &copy, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (r *memEntries) ListByWallet(ctx context.Context, walletID uint, limit, offset int) ([]models.Transaction, int64, error) {
	defer r.lock()()
	var matched []models.Transaction
	for _, e := range r.s.entries {
		if e.WalletID == walletID {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memUsers struct {
	s    *memStore
	inTx bool
}

func (r *memUsers) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	defer r.lock()()
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return repositories.ErrDuplicateUser
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	copy := *user
	r.s.users[user.ID] = &copy
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.lock()()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.lock()()
	for _, u := range r.s.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// Atomically implements repositories.UnitOfWork with snapshot rollback.
func (s *memStore) Atomically(ctx context.Context, fn func(tx repositories.Stores) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.beforeUnit != nil {
		hook := s.beforeUnit
		s.beforeUnit = nil
		hook(s)
	}

	snapWallets := make(map[uint]*models.Wallet, len(s.wallets))
	for id, w := range s.wallets {
		copy := *w
		snapWallets[id] = &copy
	}
	snapAccounts := make(map[string]uint, len(s.byAccount))
	for acct, id := range s.byAccount {
		snapAccounts[acct] = id
	}
	snapRefs := make(map[string]struct{}, len(s.refs))
	for ref := range s.refs {
		snapRefs[ref] = struct{}{}
	}
	snapEntries := len(s.entries)
	snapUsers := make(map[uint]*models.User, len(s.users))
	for id, u := range s.users {
		copy := *u
		snapUsers[id] = &copy
	}

	err := fn(repositories.Stores{
		Wallets:      &memWallets{s: s, inTx: true},
		Transactions: &memEntries{s: s, inTx: true},
		Users:        &memUsers{s: s, inTx: true},
	})
	if err != nil {
		s.wallets = snapWallets
		s.byAccount = snapAccounts
		s.refs = snapRefs
		s.entries = s.entries[:snapEntries]
		s.users = snapUsers
		return err
	}
	return nil
}
