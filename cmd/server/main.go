package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/app"
	"carpool/internal/config"
	"carpool/internal/handler"
	internalRedis "carpool/internal/redis"
	"carpool/internal/repository/postgres"
	"carpool/internal/service"
	"carpool/pkg/logger"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logg, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logg.Warn("failed to initialize New Relic", logger.Err(err))
			nrApp = nil
		} else {
			logg.Info("New Relic enabled", logger.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logg.Fatal("failed to connect to database", logger.Err(err))
	}
	defer db.Close()
	logg.Info("connected to PostgreSQL")

	if err := app.RunMigrations(cfg.Database); err != nil {
		logg.Fatal("failed to run migrations", logger.Err(err))
	}

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logg.Fatal("failed to connect to redis", logger.Err(err))
	}
	defer redisClient.Close()
	logg.Info("connected to Redis")

	server, reconciler := wireServer(db, redisClient, nrApp, cfg, logg)

	// Background sweep for bookings stuck awaiting payment.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go reconciler.Run(sweepCtx)

	go func() {
		logg.Info("starting server", logger.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("server error", logger.Err(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")
	stopSweep()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Fatal("server forced to shutdown", logger.Err(err))
	}

	logg.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// booking reconciler.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logg *logger.Logger) (*http.Server, *service.Reconciler) {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Persistence.
	store := postgres.NewStore(db)

	// Services.
	notificationService := service.NewNotificationService(logg)
	fareService := service.NewFareService(cfg.Fare.BaseFare, cfg.Fare.RatePerKm, nil)
	userService := service.NewUserService(store, logg)
	rideService := service.NewRideService(store, fareService, notificationService, cacheStore, logg)
	bookingService := service.NewBookingService(store, fareService, notificationService, logg)
	gateway := service.NewSandboxGateway(cfg.Gateway.KeySecret)
	paymentService := service.NewPaymentService(store, gateway, notificationService,
		cfg.Gateway.KeySecret, cfg.Gateway.Currency, cfg.Gateway.CallTimeout, logg)
	payoutService := service.NewPayoutService(store, notificationService, cacheStore, logg)
	reviewService := service.NewReviewService(store, logg)
	reconciler := service.NewReconciler(store, lockStore, notificationService,
		cfg.Reconciler.Interval, cfg.Reconciler.MaxPendingAge, logg)

	// Handlers.
	userHandler := handler.NewUserHandler(userService)
	rideHandler := handler.NewRideHandler(rideService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService, payoutService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	router := app.NewRouter(app.RouterDeps{
		UserHandler:    userHandler,
		RideHandler:    rideHandler,
		BookingHandler: bookingHandler,
		PaymentHandler: paymentHandler,
		ReviewHandler:  reviewHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, reconciler
}
