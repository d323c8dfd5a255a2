package ledger

import "errors"

// Service errors. Validation and precondition failures are returned before the
// commit unit starts, so a failed operation never creates an entry or moves a
// balance.
var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDestinationNotFound = errors.New("destination wallet not found")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrWalletInactive      = errors.New("wallet is inactive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSameWallet          = errors.New("cannot transfer to same wallet")
	ErrConflict            = errors.New("operation conflicted with concurrent updates")
)

// errNoCache makes NoopCache report a permanent miss.
var errNoCache = errors.New("cache disabled")
