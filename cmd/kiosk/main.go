package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/cloverbooth/kiosk/internal"
)

func main() {
	//decimals at json as string
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg := NewConfig()
	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger := z.Sugar()

	if cfg.AdminPassword == "" {
		sugaredLogger.Fatalf("%s must be set", AdminPassword)
	}
	if cfg.GoogleCreds == "" {
		sugaredLogger.Fatalf("%s must be set", GoogleCreds)
	}

	ledger, err := NewSheetLedger(context.Background(), []byte(cfg.GoogleCreds), cfg.SpreadsheetID, sugaredLogger)
	if err != nil {
		sugaredLogger.Fatal(err)
	}

	hub := NewHub(sugaredLogger)
	service := NewService(ledger, hub, NewOverlay(), cfg.EmailDomains(), sugaredLogger)
	handlers := NewHandlers(service, hub, cfg.AdminPassword, cfg.SessionSecret, sugaredLogger)

	app := fiber.New()
	app.Use(logger.New())

	app.Get("/", handlers.Form)
	app.Post("/submit", handlers.Submit)
	app.Get("/queue", handlers.Queue)

	app.Get("/admin", handlers.LoginPage)
	app.Post("/admin", handlers.Login)
	app.Get("/logout", handlers.Logout)
	app.Get("/dashboard", handlers.Dashboard)

	app.Post("/toggle/:id", handlers.ToggleStatus)
	app.Post("/printed/:id", handlers.TogglePrinted)
	app.Post("/claimed/:id", handlers.ToggleClaimed)
	app.Post("/clear/:id", handlers.Clear)

	app.Use("/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/live", websocket.New(handlers.Live))

	go sugaredLogger.Fatal(app.Listen(cfg.RunAddress))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("Shutting down kiosk...")
}
