package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "pamoja-backend/internal/api/http"
	"pamoja-backend/internal/config"
	"pamoja-backend/internal/events"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/policy"
	"pamoja-backend/internal/repository/postgres"
	"pamoja-backend/internal/security"
	"pamoja-backend/internal/service"
	"pamoja-backend/internal/storage"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Optional dotenv file loaded before the configuration")
	migrate := flag.Bool("migrate", true, "Apply database migrations on startup")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Pamoja backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if *migrate {
		if err := postgres.Migrate(db); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Storage
	files, err := storage.New(storage.Config{
		Type:                cfg.Storage.Type,
		UploadDir:           cfg.Storage.UploadDir,
		CloudinaryCloudName: cfg.Storage.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.Storage.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.Storage.CloudinaryAPISecret,
	})
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("File storage ready", "type", cfg.Storage.Type)

	// Initialize Events
	publisher := events.New(cfg.Events.Brokers, cfg.Events.Topic)
	defer publisher.Close()

	// Initialize Services
	thresholds := policy.Thresholds{
		CriticalLow: cfg.Membership.CriticalLowShares,
		Low:         cfg.Membership.LowShares,
	}
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	notifier := service.NewNotifier(store.UserRepository, store.NotificationRepository, emailSvc, publisher)

	services := httpapi.Services{
		Auth: service.NewAuthService(
			store.UserRepository,
			store.PaymentRepository,
			store.ApplicationRepository,
			store.ClaimRepository,
			store.NotificationRepository,
			store.AnnouncementRepository,
			store.MeetingRepository,
			tokenManager,
			emailSvc,
			thresholds,
		),
		Applications: service.NewApplicationService(store.ApplicationRepository, files, notifier),
		Payments: service.NewPaymentService(
			store.PaymentRepository,
			store.ApplicationRepository,
			store.UserRepository,
			files,
			notifier,
			service.Fees{
				ActivationCents: cfg.Membership.ActivationFeeCents,
				SingleCents:     cfg.Membership.SingleFeeCents,
				DoubleCents:     cfg.Membership.DoubleFeeCents,
			},
		),
		Shares:        service.NewShareService(store.ShareRepository, files, notifier, cfg.Membership.SharePriceCents),
		Claims:        service.NewClaimService(store.ClaimRepository, files, notifier),
		Documents:     service.NewDocumentService(store.DocumentRepository, files, notifier),
		Contact:       service.NewContactService(store.ContactRepository, emailSvc, notifier),
		Admin:         service.NewAdminService(store.UserRepository, store.ShareRepository, notifier, thresholds),
		Content:       service.NewContentService(store.AnnouncementRepository, store.MeetingRepository, notifier),
		Notifications: service.NewNotificationService(store.NotificationRepository),
	}

	router := httpapi.NewRouter(services, httpapi.RouterOptions{
		Tokens:         tokenManager,
		MaxUploadBytes: cfg.Storage.MaxFileSize << 20,
		Limiter:        httpapi.NewLoginLimiter(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.Burst),
		Health: func(r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
