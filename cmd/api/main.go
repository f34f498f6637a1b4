package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adipala-ubp/surat-izin/docs"
	"github.com/adipala-ubp/surat-izin/internal/auth"
	"github.com/adipala-ubp/surat-izin/internal/config"
	"github.com/adipala-ubp/surat-izin/internal/database"
	"github.com/adipala-ubp/surat-izin/internal/http/handler"
	"github.com/adipala-ubp/surat-izin/internal/http/middleware"
	"github.com/adipala-ubp/surat-izin/internal/http/router"
	"github.com/adipala-ubp/surat-izin/internal/jobs"
	"github.com/adipala-ubp/surat-izin/internal/logger"
	"github.com/adipala-ubp/surat-izin/internal/repository"
	"github.com/adipala-ubp/surat-izin/internal/service"
	"go.uber.org/zap"
)

// @title Surat Izin API
// @version 1.0
// @description Goods-movement permit letters and their four-stage approval chain

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("unit", basicCfg.App.Unit),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// In staging/production with USE_AZURE_KEY_VAULT=true, credentials come from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Postgres/MySQL deployments run cmd/migrate; sqlite and local development migrate in place
	if cfg.Database.Driver == "sqlite" || cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if cfg.App.SeedData {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		log.Info("Seed data loaded")
	}

	// Repositories
	permitRepo := repository.NewPermitRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Services
	outboxService := service.NewOutboxService(db, outboxRepo, notificationRepo, auditLogRepo, cfg.Outbox.MaxAttempts, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, outboxRepo, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, outboxRepo, log)
	permitService := service.NewPermitService(db, permitRepo, auditLogService, outboxService, log)
	approvalService := service.NewApprovalService(db, permitRepo, notificationService, auditLogService, outboxService, log)
	userService := service.NewUserService(userRepo, log)

	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, router.Handlers{
		Permit:       handler.NewPermitHandler(permitService, log),
		Approval:     handler.NewApprovalHandler(approvalService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Audit:        handler.NewAuditHandler(auditLogService, log),
		Auth:         handler.NewAuthHandler(userService, log),
		Outbox:       handler.NewOutboxHandler(outboxService, cfg.Outbox.BatchSize, log),
	})

	var scheduler *jobs.Scheduler
	if cfg.Outbox.Enabled {
		scheduler = jobs.NewScheduler(log)

		// runOnStartup=true picks up events left behind by a previous crash
		if err := jobs.RegisterOutboxJob(
			scheduler,
			outboxService,
			log,
			cfg.Outbox.Cron,
			cfg.Outbox.BatchSize,
			time.Minute,
			true,
		); err != nil {
			log.Error("Failed to register outbox job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with outbox job",
				zap.String("cron_expr", cfg.Outbox.Cron),
				zap.Int("batch_size", cfg.Outbox.BatchSize),
			)
		}
	} else {
		log.Info("Outbox redelivery disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
