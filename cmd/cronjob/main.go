package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"dressrental-backend/internal/config"
	"dressrental-backend/internal/jobs"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/repository/postgres"
	"dressrental-backend/internal/scheduler"
	"dressrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-holds', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Dress Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	jobServices := &jobs.Services{
		Orders:       orderService,
		Availability: availabilityService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-holds":
		jobRunner.ExpireStaleHolds()
	case "cancel-expired-pickups":
		jobRunner.CancelExpiredPickupOrders()
	case "flag-overdue-rentals":
		jobRunner.FlagOverdueRentals()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-holds\n")
		fmt.Printf("  - cancel-expired-pickups\n")
		fmt.Printf("  - flag-overdue-rentals\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
