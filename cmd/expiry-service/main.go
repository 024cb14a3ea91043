package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/handler"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/jwt"
	authrepository "github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/repository"
	authservice "github.com/Benedict-Edwin/expiry-optimist-backend/internal/auth/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/events"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/handler"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/repository"
	"github.com/Benedict-Edwin/expiry-optimist-backend/internal/inventory/service"
	reporthandler "github.com/Benedict-Edwin/expiry-optimist-backend/internal/reports/handler"
	reportservice "github.com/Benedict-Edwin/expiry-optimist-backend/internal/reports/service"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/config"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/database"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/httputil"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/logger"
	"github.com/Benedict-Edwin/expiry-optimist-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("expiry-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("expiry-service", cfg.Server.Environment)
	log.Info().Msg("starting Expiry Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ. In development the broker is optional: events
	// degrade to no-ops when it is unreachable.
	var publisher *events.InventoryEventPublisher
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		if cfg.Server.Environment == "production" {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
	} else {
		defer rmq.Close()
		publisher, err = events.NewInventoryEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	userRepo := authrepository.NewUserRepository(db)

	// Initialize services
	inventoryService := service.NewInventoryService(productRepo, alertRepo, publisher, log)
	posSyncService := service.NewPOSSyncService(productRepo, alertRepo, saleRepo, publisher, log)
	reportService := reportservice.NewReportService(productRepo, saleRepo, log)
	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(userRepo, jwtManager, log)

	// Seed a default login for local development
	if cfg.Server.Environment == "development" {
		if err := authService.EnsureUser(context.Background(), "admin@local.dev", "Admin", "admin-dev-password"); err != nil {
			log.Warn().Err(err).Msg("failed to seed development user")
		}
	}

	// Initialize handlers
	productHandler := handler.NewProductHandler(inventoryService, log)
	dashboardHandler := handler.NewDashboardHandler(inventoryService, log)
	alertHandler := handler.NewAlertHandler(inventoryService, log)
	expiryHandler := handler.NewExpiryHandler(inventoryService, log)
	posSyncHandler := handler.NewPOSSyncHandler(posSyncService, log)
	reportHandler := reporthandler.NewReportHandler(reportService, log)
	authHandler := authhandler.NewAuthHandler(authService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handler.POSKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "expiry-service",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.With(authhandler.RequireAuth(jwtManager)).Get("/auth/me", authHandler.Me)

		// POS sync (shared-key authentication, not JWT)
		r.Group(func(r chi.Router) {
			r.Use(handler.RequirePOSKey(cfg.POS.Key))
			r.Post("/pos/sync", posSyncHandler.Sync)
			r.Post("/pos/sale", posSyncHandler.Sale)
		})

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authhandler.RequireAuth(jwtManager))
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		// Expiry-risk table
		r.Get("/expiry-risk", expiryHandler.Table)

		// Dashboard
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/kpis", dashboardHandler.KPIs)
			r.Get("/distribution", dashboardHandler.StatusDistribution)
			r.Get("/alerts", dashboardHandler.DerivedAlerts)
		})

		// Persisted alerts
		r.Get("/alerts", alertHandler.List)
		r.With(authhandler.RequireAuth(jwtManager)).Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales-trend", reportHandler.SalesTrend)
			r.Get("/category-sales", reportHandler.CategorySales)
			r.Get("/wastage", reportHandler.Wastage)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
