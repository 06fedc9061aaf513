package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/config"
	"github.com/noah-isme/rota-go-api/internal/database"
	"github.com/noah-isme/rota-go-api/internal/handler"
	"github.com/noah-isme/rota-go-api/internal/middleware"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/observability"
	"github.com/noah-isme/rota-go-api/internal/repository"
	"github.com/noah-isme/rota-go-api/internal/router"
	"github.com/noah-isme/rota-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Department{},
		&models.Shift{},
		&models.Availability{},
		&models.TimeOffRequest{},
		&models.EscalationRequest{},
		&models.AuditRecord{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	accountRepo := repository.NewAccountRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	timeOffRepo := repository.NewTimeOffRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	runCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()

	auditService := service.NewAuditService(auditRepo, logger)
	escalationService := service.NewEscalationService(escalationRepo, accountRepo, auditService, validate, logger)
	policy := authz.NewPolicy(escalationService, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, "rota", natsConn, validate, logger)
	notificationService.Start(runCtx)

	accountService := service.NewAccountService(
		accountRepo, departmentRepo, shiftRepo, availabilityRepo, timeOffRepo,
		policy, escalationService, auditService, notificationService, validate,
		cfg.AdminSignupCode, logger,
	)
	shiftService := service.NewShiftService(
		shiftRepo, availabilityRepo, accountRepo, policy, escalationService,
		auditService, notificationService, validate, redisClient, cfg.BoardCacheTTL, logger,
	)
	timeOffService := service.NewTimeOffService(
		timeOffRepo, accountRepo, policy, escalationService, auditService,
		notificationService, validate, logger,
	)
	departmentService := service.NewDepartmentService(departmentRepo, accountRepo, auditService, validate, logger)
	reportService := service.NewReportService(
		accountRepo, shiftRepo, timeOffRepo, escalationRepo, redisClient, cfg.ReportCacheTTL, logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		AccountHandler:      handler.NewAccountHandler(accountService, logger),
		EscalationHandler:   handler.NewEscalationHandler(escalationService, logger),
		AuditHandler:        handler.NewAuditHandler(auditService, logger),
		DepartmentHandler:   handler.NewDepartmentHandler(departmentService, logger),
		ShiftHandler:        handler.NewShiftHandler(shiftService, logger),
		TimeOffHandler:      handler.NewTimeOffHandler(timeOffService, logger),
		ReportHandler:       handler.NewReportHandler(reportService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
