package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signup-relay/pkg/api"
	"signup-relay/pkg/clients/mailchimp"
	"signup-relay/pkg/config"
	"signup-relay/pkg/logger"
	"signup-relay/pkg/pages"
	"signup-relay/pkg/services"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Missing documents stop the process here, not on first request
	docs, err := pages.Load(cfg.TemplatesDir)
	if err != nil {
		zl.Fatal("Error loading pages", zap.Error(err))
	}

	// Initialize API client
	mailchimpClient := mailchimp.NewClient(
		cfg.MailchimpBaseURL,
		cfg.MailchimpListID,
		cfg.MailchimpUsername,
		cfg.MailchimpAPIKey,
		cfg.MailchimpTimeout,
		zl.Named("mailchimp"),
	)

	// Initialize services
	signupService := services.NewSignupService(mailchimpClient, zl.Named("signup"))

	gin.SetMode(cfg.GinMode)

	handlers := api.NewHandlers(signupService, docs, zl)
	router := api.NewRouter(handlers, api.RouterOptions{
		StaticDir: cfg.StaticDir,
		SSL:       cfg.SSL,
		Logger:    zl.Named("http"),
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		zl.Info("Server started", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Error starting server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}
}
