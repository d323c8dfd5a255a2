// Package handlers wires the HTTP surface. Handlers stay thin: parse, resolve
// the actor's wallet, call the service, map errors.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kobo/internal/middleware"
)

// RegisterRoutes mounts the v1 API.
func RegisterRoutes(app *fiber.App, userHandler *UserHandler, walletHandler *WalletHandler, authMiddleware *middleware.Auth) {
	v1 := app.Group("/api/v1")

	users := v1.Group("/users")
	users.Post("/register", userHandler.Register)
	users.Post("/login", userHandler.Login)

	wallet := v1.Group("/wallet", authMiddleware.Handler)
	wallet.Post("/fund", walletHandler.Fund)
	wallet.Post("/withdraw", walletHandler.Withdraw)
	wallet.Post("/transfer", walletHandler.Transfer)
	wallet.Get("/balance", walletHandler.Balance)
	wallet.Get("/transactions", walletHandler.Transactions)
}
