package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/airyshop/storefront/internal"
	"github.com/airyshop/storefront/internal/bootstrap"
	"github.com/airyshop/storefront/internal/domain"
	"github.com/airyshop/storefront/internal/email"
	"github.com/airyshop/storefront/internal/handler"
	"github.com/airyshop/storefront/internal/middleware"
	"github.com/airyshop/storefront/internal/payment"
	"github.com/airyshop/storefront/internal/router"
	"github.com/airyshop/storefront/internal/routes"
	"github.com/airyshop/storefront/internal/service"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/store/memory"
	"github.com/airyshop/storefront/internal/store/postgres"
	"github.com/airyshop/storefront/internal/telemetry"
	"github.com/airyshop/storefront/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Select the storage backend
	var entityStore store.EntityStore
	switch cfg.StoreBackend {
	case "postgres":
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pgStore, err := postgres.Connect(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pgStore.Close()
		entityStore = pgStore

	case "memory":
		logger.Warn("Using in-memory store, all data is lost on restart")
		memStore := memory.New()
		seedDemoData(memStore)
		entityStore = memStore

	default:
		return fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}

	// Provision the initial admin account when configured
	if err := bootstrap.EnsureAdmin(ctx, entityStore, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Token:    cfg.Admin.Token,
		FullName: cfg.Admin.FullName,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Business metrics
	businessMetrics := telemetry.NewBusinessMetrics("storefront")

	// Payment processor (simulated gateway with configurable latency)
	processor := payment.NewSimulatedProcessor(time.Duration(cfg.Payment.DelayMs)*time.Millisecond, logger)

	// Services
	productService := service.NewProductService(entityStore, logger)
	cartService := service.NewCartService(entityStore, businessMetrics, logger)
	orderService := service.NewOrderService(entityStore, logger)
	activityService := service.NewActivityService(entityStore, logger)
	identities := service.NewIdentityProvider(entityStore, logger)
	checkoutService := service.NewCheckoutService(entityStore, processor, businessMetrics, cfg.Email.OperatorEmail, logger)

	// Email delivery
	sender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)

	emailService, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Background email worker
	emailWorker := worker.NewWorker(entityStore, emailService, businessMetrics, worker.Config{
		PollInterval:   time.Duration(cfg.Worker.PollIntervalMs) * time.Millisecond,
		MaxConcurrency: cfg.Worker.MaxConcurrency,
	}, logger)

	go func() {
		if err := emailWorker.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error("email worker stopped", "error", err)
		}
	}()

	// HTTP metrics and middleware chain
	httpMetrics := middleware.NewMetrics("storefront")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.WithRequestLogger(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ProductHandler:  handler.NewProductHandler(productService),
		CartHandler:     handler.NewCartHandler(cartService),
		CheckoutHandler: handler.NewCheckoutHandler(checkoutService),
		OrderHandler:    handler.NewOrderHandler(orderService),
		ActivityHandler: handler.NewActivityHandler(activityService),
		Identities:      identities,
		MetricsHandler:  httpMetrics.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting storefront server", "address", addr, "env", cfg.Env, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// seedDemoData loads a small catalog and two users so the in-memory
// backend is usable out of the box.
func seedDemoData(st *memory.Store) {
	st.SeedProduct(domain.Product{
		ID:          "p-headphones",
		Title:       "Wireless Headphones",
		Description: "Over-ear wireless headphones with active noise cancellation",
		Price:       600,
		Category:    "audio",
	})
	st.SeedProduct(domain.Product{
		ID:            "p-speaker",
		Title:         "Bluetooth Speaker",
		Description:   "Portable speaker with 12 hour battery life",
		Price:         250,
		DiscountPrice: 200,
		Category:      "audio",
	})
	st.SeedProduct(domain.Product{
		ID:          "p-charger",
		Title:       "USB-C Fast Charger",
		Description: "65W wall charger",
		Price:       45,
		Category:    "accessories",
	})

	st.SeedUser("dev-customer-token", domain.User{
		Email:    "customer@airyshop.local",
		FullName: "Demo Customer",
		Role:     domain.RoleCustomer,
	})
	st.SeedUser("dev-admin-token", domain.User{
		Email:    "admin@airyshop.local",
		FullName: "Demo Admin",
		Role:     domain.RoleAdmin,
	})
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
