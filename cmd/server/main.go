package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techsupport_pro_go/config"
	"techsupport_pro_go/db"
	"techsupport_pro_go/logger"
	"techsupport_pro_go/models"
	"techsupport_pro_go/services"
	"techsupport_pro_go/services/i18n"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Getenv("ENVIRONMENT")).Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Environment)
	defer log.Sync()

	if err := i18n.Load(); err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}

	// Initialize database (nil handle when disabled)
	if err := db.Initialize(cfg, log); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	var store services.LeadStore
	if db.DB != nil {
		if err := db.AutoMigrate(&models.Lead{}, &models.ConsentLog{}); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		store = services.NewGormLeadStore(db.DB)
	}

	var mailer services.Mailer
	if cfg.ResendAPIKey != "" || cfg.EmailTestMode {
		mailer = services.NewResendMailer(cfg, log)
	} else {
		log.Warn("RESEND_API_KEY not set, contact notifications are disabled")
	}

	if cfg.TurnstileSecretKey == "" {
		log.Warn("TURNSTILE_SECRET_KEY not set, every contact submission will fail verification")
	}
	if cfg.AllowedOrigin == "" {
		log.Warn("ALLOWED_ORIGIN not set, contact submissions are accepted from any origin")
	}

	contact := services.NewContactService(services.ContactSettingsFromConfig(cfg), services.NewTurnstileVerifier(), store, mailer, log)
	consent := services.NewConsentService(db.DB, cfg.IPHashSecret, log)

	e := newServer(cfg, log, contact, consent)

	go func() {
		log.Info("Server starting", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
}
