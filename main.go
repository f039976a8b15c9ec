package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"salesdash/assistant"
	"salesdash/config"
	"salesdash/handlers"
	"salesdash/logger"
	"salesdash/mailer"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := config.Load()
	config.AppConfig = cfg

	zlog, err := logger.New(cfg.Server.AppEnv, cfg.Logger)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.JWT.Secret == "" {
		zlog.Fatal("JWT_SECRET is not set")
	}

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeStore()

	asst, aiCloser, err := assistant.FromConfig(ctx, cfg.AI)
	if err != nil {
		zlog.Fatal("Failed to set up AI provider", zap.Error(err))
	}
	defer aiCloser.Close()
	zlog.Info("AI provider ready", zap.String("provider", asst.Provider()))

	var sender mailer.Sender
	if smtp := mailer.NewSMTP(cfg.Mail); smtp != nil {
		sender = smtp
	} else {
		zlog.Warn("SMTP is not configured; report e-mails are disabled")
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		zlog.Warn("Unknown timezone, using UTC", zap.String("timezone", cfg.Server.Timezone), zap.Error(err))
		loc = time.UTC
	}

	h := handlers.New(store, asst, sender, zlog, cfg.Analytics, loc)
	app := newServer(cfg, store, h, zlog)

	go func() {
		zlog.Info("Server listening", zap.String("addr", cfg.Server.Addr))
		if err := app.Listen(cfg.Server.Addr); err != nil {
			zlog.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("Shutdown failed", zap.Error(err))
	}
}
