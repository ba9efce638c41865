package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	_ "github.com/mojtabasji/HistoryBox-sub000/docs"
	"github.com/mojtabasji/HistoryBox-sub000/internal/config"
	"github.com/mojtabasji/HistoryBox-sub000/internal/database"
	"github.com/mojtabasji/HistoryBox-sub000/internal/handlers"
	"github.com/mojtabasji/HistoryBox-sub000/internal/logger"
	"github.com/mojtabasji/HistoryBox-sub000/internal/middleware"
	"github.com/mojtabasji/HistoryBox-sub000/internal/services"
	"github.com/mojtabasji/HistoryBox-sub000/internal/telemetry"
	"github.com/mojtabasji/HistoryBox-sub000/pkg/firebase"
	"github.com/mojtabasji/HistoryBox-sub000/pkg/payment"
)

const serviceName = "historybox-api"

// @title HistoryBox API
// @version 1.0.0
// @description Location-based memory sharing with region unlocks and a coin economy
// @host api.historybox.app
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize OpenTelemetry Tracer
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, serviceName, cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// Initialize OpenTelemetry Metrics
	meterShutdown, err := telemetry.InitMeter(ctx, serviceName, cfg.SigNozEndpoint)
	if err != nil {
		log.Printf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics: %v", err)
		}
	}()

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// GORM connection pool gauges for Prometheus
	go database.StartConnectionPoolMetricsCollector(ctx, db.DB, 15*time.Second)

	// Payment gateway client
	paymentClient := payment.NewClient(
		cfg.PaymentBaseURL,
		cfg.PaymentServiceID,
		time.Duration(cfg.PaymentTimeoutSec)*time.Second,
	)
	payments := services.NewPaymentService(db, paymentClient, cfg.PaymentCallbackURL)

	// Firebase Cloud Messaging for region watch notifications
	fcm := firebase.NewFCMService(ctx, cfg.FirebaseCredentialsPath)
	watches := services.NewWatchService(db, fcm)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HistoryBox API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	// JSON structured access log
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "UTC",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: serviceName,
	}))
	app.Use(middleware.PrometheusMiddleware())
	// Mobile app (Android/iOS) calls the API from any origin
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	// Setup routes
	setupRoutes(app, db, cfg, payments, watches)

	// Start server
	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func setupRoutes(app *fiber.App, db *database.DB, cfg *config.Config, payments *services.PaymentService, watches *services.WatchService) {
	// Swagger UI
	app.Get("/v1/docs/*", swagger.HandlerDefault)

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/health", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// Prometheus scrape endpoint, cluster-internal only
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	// API v1 group
	v1 := app.Group("/v1")

	// Region content gate is public with optional auth; unlocking requires auth
	regions := v1.Group("/regions", middleware.OptionalAuth(cfg))
	regionsAuthed := v1.Group("/regions", middleware.AuthRequired(cfg))
	handlers.SetupRegionRoutes(regions, regionsAuthed, db)

	// Coin economy: plan catalog and payment verification are open
	// (the gateway redirect carries no session), checkout and balance are not
	coinsOpen := v1.Group("/coins", middleware.OptionalAuth(cfg))
	coinsAuthed := v1.Group("/coins", middleware.AuthRequired(cfg))
	handlers.SetupCoinRoutes(coinsAuthed, coinsOpen, db, payments)

	// Memories routes (auth required)
	memories := v1.Group("/memories", middleware.AuthRequired(cfg))
	handlers.SetupMemoryRoutes(memories, db, watches)

	// Region watches and FCM device registration (auth required)
	watchRoutes := v1.Group("/watches", middleware.AuthRequired(cfg))
	devices := v1.Group("/devices", middleware.AuthRequired(cfg))
	handlers.SetupWatchRoutes(watchRoutes, devices, db, watches)

	// Users routes (auth required)
	users := v1.Group("/users", middleware.AuthRequired(cfg))
	handlers.SetupUserRoutes(users, db)
}
