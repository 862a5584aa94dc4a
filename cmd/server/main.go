package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/shopspring/decimal"

	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/config"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/database"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/logging"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/routes"
	"github.com/ahmetcoskunkizilkaya/pricepulse/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout) until the database is up
	logging.Setup(nil)

	// Prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.Setup(db)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Services
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	vendorRequestService := services.NewVendorRequestService(db)
	priceService := services.NewPriceService(db)
	notificationService := services.NewNotificationService(db)
	catalogService := services.NewCatalogService(db)
	contactService := services.NewContactService(db, mailer.NewSMTPMailer(cfg), cfg.SupportEmail)

	if err := userService.BootstrapAdmins(cfg.AdminEmailList()); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
	}
	if !cfg.EmailConfigured() {
		slog.Warn("EMAIL_USER/EMAIL_PASSWORD not set, outgoing mail will only be logged")
	}

	// Handlers
	h := routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, cfg),
		Health:        handlers.NewHealthHandler(db),
		Price:         handlers.NewPriceHandler(priceService, notificationService),
		VendorRequest: handlers.NewVendorRequestHandler(vendorRequestService),
		Notification:  handlers.NewNotificationHandler(notificationService, vendorRequestService),
		Catalog:       handlers.NewCatalogHandler(catalogService),
		Contact:       handlers.NewContactHandler(contactService),
		AdminUser:     handlers.NewAdminUserHandler(userService),
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
		BodyLimit:    int(cfg.UploadMaxSize),
		ErrorHandler: handlers.ErrorHandler,
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
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, authService, h)

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

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
