package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	httpapi "dressrental-backend/internal/api/http"
	"dressrental-backend/internal/config"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository/postgres"
	"dressrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Dress Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	availabilityService := service.NewAvailabilityService(
		store.ReservationRepository,
		store.InventoryRepository,
		time.Duration(cfg.Rental.HoldTTLMinutes)*time.Minute,
	)

	orderService := service.NewOrderService(
		store.OrderRepository,
		store.CartRepository,
		store.CouponRepository,
		store.UserRepository,
		store.AuditRepository,
		store.NotificationRepository,
		availabilityService,
		emailService,
		service.OrderSettings{
			ServiceFeePercent: cfg.Rental.ServiceFeePercent,
			ShippingFee:       cfg.Rental.ShippingFee,
			PickupDeadline:    time.Duration(cfg.Rental.PickupDeadlineHours) * time.Hour,
		},
	)

	paymentService := service.NewPaymentService(
		store.OrderRepository,
		store.AuditRepository,
		availabilityService,
	)

	returnService := service.NewReturnService(
		store.ReturnRepository,
		store.OrderRepository,
		store.InventoryRepository,
		store.UserRepository,
		store.AuditRepository,
		store.NotificationRepository,
		orderService,
		emailService,
		cfg.Rental.LateFeeMultiplier,
	)

	inventoryService := service.NewInventoryService(store.InventoryRepository)
	notificationService := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP router
	router := httpapi.NewRouter(httpapi.Services{
		Orders:        orderService,
		Availability:  availabilityService,
		Payments:      paymentService,
		Returns:       returnService,
		Inventory:     inventoryService,
		Notifications: notificationService,
	})

	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server failed", "error", err)
		log.Fatalf("HTTP server failed: %v", err)
	}
}
