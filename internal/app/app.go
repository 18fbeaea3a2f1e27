package app

import (
	"context"
	"fmt"

	"clutchpay_backend/internal/config"
	"clutchpay_backend/internal/database"
	"clutchpay_backend/internal/email"
	"clutchpay_backend/internal/handlers"
	"clutchpay_backend/internal/logger"
	"clutchpay_backend/internal/middleware"
	"clutchpay_backend/internal/repositories"
	"clutchpay_backend/internal/routes"
	"clutchpay_backend/internal/services"
	"clutchpay_backend/internal/validator"
	"clutchpay_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	serviceContainer := initializeServices(cfg, gormDB)
	ginRouter := SetupRouter(cfg, gormDB, serviceContainer)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	worker := workers.NewReminderWorker(serviceContainer.ReminderService, cfg.Scheduler)
	worker.Start(workerCtx)
	logger.Info("Reminder worker started",
		"scan_interval_min", cfg.Scheduler.ScanIntervalMinutes,
		"cleanup_interval_min", cfg.Scheduler.CleanupIntervalMinutes,
	)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires handlers onto a gin engine. Split out from Run so tests
// can mount the full route table on a test DB.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, serviceContainer *services.ServiceContainer) *gin.Engine {
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New(), cfg)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	mailer := buildEmailProvider(cfg)

	userRepo := repositories.NewUserRepository(gormDB)
	invoiceRepo := repositories.NewInvoiceRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(userRepo),
		InvoiceService: services.NewInvoiceService(
			invoiceRepo, userRepo, notificationRepo, paymentRepo, mailer, cfg.App.BaseURL,
		),
		NotificationService: services.NewNotificationService(notificationRepo),
		ReminderService: services.NewReminderService(
			invoiceRepo, notificationRepo, mailer, cfg.App.BaseURL,
		),
	}
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	emailCfg := email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		Username:     cfg.Email.SMTPUsername,
		Password:     cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
		TemplatePath: cfg.Email.TemplatesDir,
	}

	mailer, err := email.NewGomailProvider(emailCfg)
	if err != nil {
		logger.Warn("Email provider disabled, notifications stay in-app only", "error", err)
		return &MockEmailProvider{}
	}
	return mailer
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(gormDB))

	return router
}
