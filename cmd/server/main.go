package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"bureau-backend/internal/auth"
	"bureau-backend/internal/cache"
	"bureau-backend/internal/config"
	"bureau-backend/internal/database"
	"bureau-backend/internal/db"
	"bureau-backend/internal/handlers"
	"bureau-backend/internal/health"
	h "bureau-backend/internal/http"
	"bureau-backend/internal/llm"
	"bureau-backend/internal/middleware"
	"bureau-backend/internal/monitoring"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/internal/slack"
	"bureau-backend/internal/storage"
	"bureau-backend/migrations"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Database
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Redis speaker cache is optional; the service falls through to
	// Postgres when it is unreachable.
	speakerCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Printf("[Cache] Redis unavailable, continuing without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	dealRepo := repositories.NewDealRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	speakerRepo := repositories.NewSpeakerRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	callLogRepo := repositories.NewCallLogRepository(pool)

	// Slack notifier: webhook when configured, log-only mock otherwise
	var notifier slack.Notifier
	if cfg.Slack.WebhookURL != "" {
		notifier = slack.NewWebhookService(cfg.Slack.WebhookURL)
	} else {
		log.Printf("[Slack] SLACK_WEBHOOK_URL not set, notifications will be logged only")
		notifier = slack.NewMockService()
	}

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	totpService := services.NewTOTPService(userRepo)
	userService := services.NewUserService(userRepo, jwtManager, totpService)
	notificationService := services.NewNotificationService(notifier)
	dealService := services.NewDealService(dealRepo, projectRepo, notificationService)
	projectService := services.NewProjectService(projectRepo)
	speakerService := services.NewSpeakerService(speakerRepo, speakerCache)
	invoiceService := services.NewInvoiceService(invoiceRepo, projectRepo)
	paymentService := services.NewPaymentService(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret, invoiceRepo)
	callLogService := services.NewCallLogService(callLogRepo)

	// Invoice PDFs are archived to object storage when credentials exist
	if cfg.Storage.Bucket != "" {
		archive, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
		})
		if err != nil {
			log.Printf("[Storage] Archive unavailable: %v", err)
		} else {
			invoiceService.SetArchive(archive)
		}
	}

	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey)
	assistantService := services.NewAssistantService(
		llmClient, cfg.LLM.Model, dealService, projectService, speakerService, callLogRepo)

	// Monitoring sidecar doubles as the live event feed for deal
	// pipeline changes.
	monitoringServer := monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port)
	dealService.SetEventSink(monitoringServer)
	go monitoringServer.Start()

	// Handlers
	healthChecker := health.NewHealthChecker(pool, speakerCache)
	authHandler := handlers.NewAuthHandler(userService)
	totpHandler := handlers.NewTOTPHandler(totpService)
	dealHandler := handlers.NewDealHandler(dealService)
	projectHandler := handlers.NewProjectHandler(projectService)
	speakerHandler := handlers.NewSpeakerHandler(speakerService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	callLogHandler := handlers.NewCallLogHandler(callLogService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		totpHandler,
		dealHandler,
		projectHandler,
		speakerHandler,
		invoiceHandler,
		paymentHandler,
		callLogHandler,
		assistantHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
