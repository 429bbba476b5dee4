package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/database"
	"github.com/scoutline/agency-admin/internal/handlers"
	"github.com/scoutline/agency-admin/internal/logging"
	"github.com/scoutline/agency-admin/internal/metrics"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/routes"
	"github.com/scoutline/agency-admin/internal/services"
	"github.com/scoutline/agency-admin/internal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	stdoutHandler := logging.Setup(!cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Role presets
	roles, err := permissions.Load(cfg.RolesConfigPath)
	if err != nil {
		slog.Error("failed to load role presets", "path", cfg.RolesConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("role presets loaded", "roles", len(roles.Names()))

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if _, err := database.EnsureBootstrapAdmin(database.DB, cfg); err != nil {
		slog.Error("bootstrap admin failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdoutHandler, dbLogHandler)))

	// System log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	metrics.Register()

	// Services
	auditService := services.NewAuditService(database.DB)
	authService := services.NewAuthService(database.DB, cfg, auditService)
	settingsService := services.NewSettingsService(database.DB, auditService)
	playerService := services.NewPlayerService(database.DB, auditService)
	scoutService := services.NewScoutService(database.DB, auditService)
	clubService := services.NewClubService(database.DB, auditService)
	reportService := services.NewReportService(database.DB, auditService)
	transferService := services.NewTransferService(database.DB, auditService)
	noteService := services.NewNoteService(database.DB, auditService)
	adminService := services.NewAdminService(database.DB, roles, auditService)
	dashboardService := services.NewDashboardService(database.DB, reportService, transferService, auditService)
	exportService := services.NewExportService(playerService)

	slog.Info("seeding default settings")
	if err := settingsService.SeedDefaults(); err != nil {
		slog.Error("failed to seed settings", "error", err)
		os.Exit(1)
	}

	// Templates
	pages, err := views.New()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}
	renderer := handlers.NewRenderer(pages, settingsService)

	// Handlers
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(cfg, authService, renderer),
		Health:    handlers.NewHealthHandler(database.DB),
		Dashboard: handlers.NewDashboardHandler(dashboardService, renderer),
		Players:   handlers.NewPlayerHandler(playerService, clubService, reportService, transferService, noteService, exportService, auditService, renderer),
		Scouts:    handlers.NewScoutHandler(scoutService, reportService, renderer),
		Clubs:     handlers.NewClubHandler(clubService, renderer),
		Reports:   handlers.NewReportHandler(reportService, playerService, scoutService, adminService, renderer),
		Transfers: handlers.NewTransferHandler(transferService, playerService, clubService, renderer),
		Admins:    handlers.NewAdminHandler(adminService, roles, renderer),
		Logs:      handlers.NewLogHandler(auditService, renderer),
		Settings:  handlers.NewSettingsHandler(settingsService, renderer),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(renderer),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	// Routes
	routes.Setup(app, cfg, h, authService, roles)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
