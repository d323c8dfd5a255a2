// Package main wires the wallet ledger service: postgres + redis, the
// repositories, the ledger engine, and the fiber HTTP surface.
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"kobo/internal/config"
	"kobo/internal/handlers"
	"kobo/internal/middleware"
	"kobo/internal/repositories"
	"kobo/internal/repositories/cache"
	"kobo/internal/services/auth"
	"kobo/internal/services/ledger"
	"kobo/internal/services/user"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	walletCache := cache.NewWalletCache(redisClient, 5*time.Minute)
	if err := walletCache.FlushAll(context.Background()); err != nil {
		log.Printf("failed to flush wallet cache on startup: %v", err)
	}

	walletRepo := repositories.NewWalletRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	userRepo := repositories.NewUserRepository(db)
	units := repositories.NewUnitOfWork(db)

	ledgerService := ledger.NewService(walletRepo, txRepo, units, walletCache, ledger.Config{
		MaxCommitAttempts: config.GetIntEnv("LEDGER_MAX_COMMIT_ATTEMPTS", ledger.DefaultCommitAttempts),
	})

	authService := auth.NewService(config.GetEnv("JWT_SECRET", ""), 24*time.Hour)

	var blacklist user.BlacklistChecker = user.AllowAll{}
	if apiKey := config.GetEnv("ADJUTOR_API_KEY", ""); apiKey != "" {
		blacklist = user.NewKarmaChecker(config.GetEnv("ADJUTOR_BASE_URL", "https://adjutor.lendsqr.com"), apiKey)
	}
	userService := user.NewService(userRepo, units, blacklist, authService)

	app := fiber.New(fiber.Config{
		AppName: "kobo",
	})
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.RegisterRoutes(app,
		handlers.NewUserHandler(userService),
		handlers.NewWalletHandler(ledgerService, walletRepo),
		middleware.NewAuth(authService),
	)

	port := config.GetEnv("PORT", "8080")
	log.Printf("listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
