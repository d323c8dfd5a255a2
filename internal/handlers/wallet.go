package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"kobo/internal/models"
	"kobo/internal/repositories"
	"kobo/internal/services/ledger"
	"kobo/internal/utils"
)

// WalletHandler exposes the ledger engine over HTTP. It resolves the
// authenticated actor's wallet, parses request shape, and maps engine errors
// to statuses; all financial rules live in the engine.
type WalletHandler struct {
	ledgerService ledger.Service
	wallets       repositories.WalletRepository
}

func NewWalletHandler(ledgerService ledger.Service, wallets repositories.WalletRepository) *WalletHandler {
	return &WalletHandler{
		ledgerService: ledgerService,
		wallets:       wallets,
	}
}

func claimsFromContext(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func (h *WalletHandler) actorWallet(c *fiber.Ctx) (*models.Wallet, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return nil, err
	}
	return h.wallets.GetByUserID(c.Context(), claims.UserID)
}

// ledgerError maps engine errors to an HTTP response.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		return utils.NotFound(c, "wallet not found")
	case errors.Is(err, ledger.ErrDestinationNotFound):
		return utils.NotFound(c, "destination wallet not found")
	case errors.Is(err, ledger.ErrInvalidAmount):
		return utils.BadRequest(c, "amount must be greater than 0")
	case errors.Is(err, ledger.ErrWalletInactive):
		return utils.BadRequest(c, "wallet is inactive")
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return utils.BadRequest(c, "insufficient balance")
	case errors.Is(err, ledger.ErrSameWallet):
		return utils.BadRequest(c, "cannot transfer to same wallet")
	case errors.Is(err, ledger.ErrConflict):
		return utils.Conflict(c, "operation conflicted with concurrent updates, retry")
	default:
		return utils.InternalError(c, "operation failed")
	}
}

func (h *WalletHandler) Fund(c *fiber.Ctx) error {
	wallet, err := h.actorWallet(c)
	if err != nil {
		return utils.Unauthorized(c, "wallet not resolved")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.ledgerService.Fund(c.Context(), wallet.ID, input.Amount, input.Description)
	if err != nil {
		return ledgerError(c, err)
	}

	return utils.Success(c, "Wallet funded successfully", fiber.Map{
		"transaction": result.Transaction,
		"new_balance": result.NewBalance,
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	wallet, err := h.actorWallet(c)
	if err != nil {
		return utils.Unauthorized(c, "wallet not resolved")
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.ledgerService.Withdraw(c.Context(), wallet.ID, input.Amount, input.Description)
	if err != nil {
		return ledgerError(c, err)
	}

	return utils.Success(c, "Withdrawal completed successfully", fiber.Map{
		"transaction": result.Transaction,
		"new_balance": result.NewBalance,
	})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	wallet, err := h.actorWallet(c)
	if err != nil {
		return utils.Unauthorized(c, "wallet not resolved")
	}

	var input struct {
		ToAccountNumber string          `json:"to_account_number"`
		Amount          decimal.Decimal `json:"amount"`
		Description     string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ToAccountNumber == "" {
		return utils.BadRequest(c, "to_account_number is required")
	}

	result, err := h.ledgerService.Transfer(c.Context(), wallet.ID, input.ToAccountNumber, input.Amount, input.Description)
	if err != nil {
		return ledgerError(c, err)
	}

	return utils.Success(c, "Transfer completed successfully", fiber.Map{
		"debit_transaction":  result.DebitTransaction,
		"credit_transaction": result.CreditTransaction,
		"new_balance":        result.NewBalance,
	})
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	wallet, err := h.actorWallet(c)
	if err != nil {
		return utils.Unauthorized(c, "wallet not resolved")
	}

	details, err := h.ledgerService.Balance(c.Context(), wallet.ID)
	if err != nil {
		return ledgerError(c, err)
	}

	return utils.Success(c, "Wallet balance retrieved successfully", fiber.Map{
		"wallet": details,
	})
}

func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	wallet, err := h.actorWallet(c)
	if err != nil {
		return utils.Unauthorized(c, "wallet not resolved")
	}

	params := utils.ParsePageParams(c)
	history, err := h.ledgerService.History(c.Context(), wallet.ID, params.Page, params.Limit)
	if err != nil {
		return ledgerError(c, err)
	}

	return utils.Success(c, "Transaction history retrieved successfully", fiber.Map{
		"transactions": history.Entries,
		"pagination":   history.Pagination,
	})
}
