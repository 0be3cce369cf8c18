package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payloop/adyen-gateway/internal/adyen"
	"github.com/payloop/adyen-gateway/internal/application/services"
	"github.com/payloop/adyen-gateway/internal/config"
	"github.com/payloop/adyen-gateway/internal/infrastructure/persistence/postgres"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest/handlers"
	"github.com/payloop/adyen-gateway/internal/interfaces/rest/middleware"
	"github.com/payloop/adyen-gateway/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting adyen gateway service",
		"port", cfg.Server.Port,
		"environment", cfg.Adyen.Environment,
		"log_level", cfg.Logger.Level,
	)

	if cfg.Webhook.AuthUser == "" && cfg.Webhook.AuthPassword == "" {
		logger.Warn("webhook Basic auth not configured; notifications endpoint accepts unauthenticated requests")
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	paymentRepo := postgres.NewPaymentRepository(db)
	txCoordinator := postgres.NewTransactionCoordinator(db)

	client := adyen.NewClient(adyen.Config{
		Environment:     adyen.Environment(cfg.Adyen.Environment),
		APIKey:          cfg.Adyen.APIKey,
		MerchantAccount: cfg.Adyen.MerchantAccount,
		LiveURLPrefix:   cfg.Adyen.LiveURLPrefix,
		Timeout:         cfg.Adyen.Timeout,
	})

	reconciler := services.NewReconcileService(paymentRepo, logger)
	checkoutService := services.NewCheckoutService(paymentRepo, client, reconciler, logger)
	notificationService := services.NewNotificationService(paymentRepo, txCoordinator, logger)
	methodsService := services.NewPaymentMethodsService(client, logger)

	signer := rest.NewTokenSigner(cfg.Webhook.RedirectSecret)

	h := handlers.NewHandlers(
		checkoutService,
		notificationService,
		methodsService,
		signer,
		logger,
	)

	webhookAuth := middleware.BasicAuth(cfg.Webhook.AuthUser, cfg.Webhook.AuthPassword, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux, webhookAuth)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	statusWorker := worker.NewStatusWorker(
		paymentRepo,
		cfg.Worker.Interval,
		cfg.Worker.BatchSize,
		cfg.Worker.GracePeriod,
		cfg.Worker.ExpireAfter,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go statusWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
