package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"petwalk/internal/app"
	"petwalk/internal/config"
	"petwalk/internal/handler"
	"petwalk/internal/ingest"
	"petwalk/internal/logging"
	"petwalk/internal/realtime"
	internalRedis "petwalk/internal/redis"
	"petwalk/internal/repository/postgres"
	"petwalk/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Route points stream to Kafka when enabled.
	var routePublisher service.RoutePublisher
	if cfg.Kafka.Enabled {
		producer := ingest.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		routePublisher = producer
		log.Printf("Kafka route stream enabled: topic=%s", cfg.Kafka.Topic)
	}

	// Wire dependencies.
	server, reminderWorker := wireServer(db, redisClient, nrApp, routePublisher, logger, cfg)

	// Background reminder worker.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go reminderWorker.Run(workerCtx)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// reminder worker for the caller to run.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	routePublisher service.RoutePublisher,
	logger *slog.Logger,
	cfg *config.Config,
) (*http.Server, *service.ReminderWorker) {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories.
	clientRepo := postgres.NewClientRepository(db)
	petRepo := postgres.NewPetRepository(db)
	walkerRepo := postgres.NewWalkerRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	routeRepo := postgres.NewRoutePointRepository(db)

	// Initialize services.
	hub := realtime.NewHub(logger)
	notificationService := service.NewNotificationService(logger)
	bookingService := service.NewBookingService(bookingRepo, petRepo, walkerRepo, routeRepo, lockStore, notificationService, hub)
	matchingService := service.NewMatchingService(walkerRepo, bookingRepo, locationStore)
	walkerService := service.NewWalkerService(walkerRepo, locationStore, cacheStore)
	clientService := service.NewClientService(clientRepo, petRepo)
	trackingService := service.NewTrackingService(bookingRepo, routeRepo, routePublisher)
	reminderWorker := service.NewReminderWorker(bookingRepo, notificationService, hub, logger)

	// Initialize handlers.
	bookingHandler := handler.NewBookingHandler(bookingService, trackingService)
	walkerHandler := handler.NewWalkerHandler(walkerService, matchingService)
	clientHandler := handler.NewClientHandler(clientService)
	wsHandler := handler.NewWSHandler(hub)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		BookingHandler: bookingHandler,
		WalkerHandler:  walkerHandler,
		ClientHandler:  clientHandler,
		WSHandler:      wsHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reminderWorker
}
