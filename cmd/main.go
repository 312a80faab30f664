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

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "sally/docs"
	"sally/internal/caching"
	"sally/internal/common"
	"sally/internal/config"
	"sally/internal/handlers"
	"sally/internal/jobs"
	"sally/internal/jobs/background"
	"sally/internal/middleware"
	"sally/internal/repositories"
	"sally/internal/services"
	"sally/pkg/database"
	"sally/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: !cfg.IsProduction(),
	})
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	tx := database.NewTxManager(pool)

	// Redis: cache, rate limiting, alert fan-out
	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)
	alertBroker := caching.NewAlertBroker(redisClient, log)

	// Email outbox
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	taskClient := asynq.NewClient(redisOpt)
	defer taskClient.Close()

	transport := services.NewEmailTransport(cfg.Email, log)
	worker := jobs.NewWorker(redisOpt, jobs.NewEmailHandler(transport, log), log)
	if err := worker.Start(); err != nil {
		return fmt.Errorf("start email worker: %w", err)
	}
	defer worker.Stop()
	emailSvc := services.NewEmailService(jobs.NewEmailDispatcher(taskClient, log), cfg.App.FrontendURL, log)

	// Document storage
	storage, err := services.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		return fmt.Errorf("init document storage: %w", err)
	}
	if err := storage.EnsureBucket(ctx); err != nil {
		log.Warn("document bucket unavailable, uploads will fail until it is reachable", zap.Error(err))
	}

	// Firebase
	var verifier services.TokenVerifier
	if cfg.Firebase.ProjectID == "" {
		log.Warn("FIREBASE_PROJECT_ID not set, login is disabled")
		verifier = services.NewDisabledVerifier()
	} else {
		verifier, err = services.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.JWKSURL, log)
		if err != nil {
			return err
		}
	}

	cipher, err := services.NewCredentialsCipher(cfg.Integration.CredentialsKey)
	if err != nil {
		return fmt.Errorf("init credentials cipher: %w", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	tokenRepo := repositories.NewRefreshTokenRepo(pool)
	auditLogRepo := repositories.NewAuditLogRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	alertRepo := repositories.NewAlertRepo(pool)
	driverRepo := repositories.NewDriverRepo(pool)
	vehicleRepo := repositories.NewVehicleRepo(pool)
	loadRepo := repositories.NewLoadRepo(pool)
	scenarioRepo := repositories.NewScenarioRepo(pool)
	integrationRepo := repositories.NewIntegrationRepo(pool)

	// Create services
	authSvc := services.NewAuthService(services.AuthConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessExpiry:  cfg.JWT.AccessExpiry,
		RefreshExpiry: cfg.JWT.RefreshExpiry,
	}, verifier, userRepo, tokenRepo, tx, log)
	auditLogsSvc := services.NewAuditLogsService(auditLogRepo)
	notificationSvc := services.NewNotificationService(notificationRepo, userRepo, log)
	tenantSvc := services.NewTenantService(tenantRepo, userRepo, auditLogsSvc, notificationSvc, emailSvc, tx, log)
	alertSvc := services.NewAlertService(alertRepo, alertBroker, notificationSvc, log)
	driverSvc := services.NewDriverService(driverRepo)
	vehicleSvc := services.NewVehicleService(vehicleRepo)
	loadSvc := services.NewLoadService(loadRepo, driverRepo, vehicleRepo, storage, tx, log)
	scenarioSvc := services.NewScenarioService(scenarioRepo)
	userSvc := services.NewUserService(userRepo, tenantRepo, driverRepo, auditLogsSvc, authSvc, emailSvc, tx, log)
	integrationSvc := services.NewIntegrationService(integrationRepo, driverRepo, vehicleRepo, cipher,
		func(baseURL string, creds map[string]string) services.VendorClient {
			return services.NewVendorClient(baseURL, creds, cfg.Integration.HTTPTimeout)
		}, log)

	// Background jobs
	fuelMonitor := jobs.NewFuelAlertMonitor(tenantRepo, vehicleRepo, alertSvc, cfg.Alerts.LowFuelRatio, log)
	scheduler, err := background.NewJobScheduler(authSvc, fuelMonitor, cfg.Alerts.FuelScanInterval, log)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	healthHandlers := handlers.NewHealthHandlers(version,
		handlers.HealthCheck{Name: "database", Pinger: pool, Critical: true},
		handlers.HealthCheck{Name: "redis", Pinger: cacheSvc, Critical: true},
		handlers.HealthCheck{Name: "storage", Pinger: storage},
	)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler(log)
	e.IPExtractor, err = middleware.NewIPExtractor(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("configure client ip extraction: %w", err)
	}

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	registerRoutes(e, routeHandlers{
		auth:          handlers.NewAuthHandlers(authSvc, cfg.IsProduction(), cfg.JWT.RefreshExpiry),
		tenants:       handlers.NewTenantHandlers(tenantSvc),
		alerts:        handlers.NewAlertHandlers(alertSvc, alertBroker, log),
		drivers:       handlers.NewDriverHandlers(driverSvc),
		vehicles:      handlers.NewVehicleHandlers(vehicleSvc),
		loads:         handlers.NewLoadHandlers(loadSvc),
		scenarios:     handlers.NewScenarioHandlers(scenarioSvc),
		notifications: handlers.NewNotificationHandlers(notificationSvc),
		users:         handlers.NewUserHandlers(userSvc),
		auditLogs:     handlers.NewAuditLogsHandlers(auditLogsSvc),
		integrations:  handlers.NewIntegrationHandlers(integrationSvc),
		jobs:          handlers.NewJobHandlers(scheduler),
		health:        healthHandlers,
	}, middleware.Authenticate(authSvc.AccessSecret(), authSvc), cacheSvc, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("SALLY server starting",
			zap.String("version", version),
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.App.Environment),
			zap.Strings("health_checks", healthHandlers.CheckNames()),
		)
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
