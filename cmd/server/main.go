package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/app"
	"github.com/Manh-Duc-NT/GoRide/internal/config"
	"github.com/Manh-Duc-NT/GoRide/internal/handler"
	"github.com/Manh-Duc-NT/GoRide/internal/realtime"
	internalRedis "github.com/Manh-Duc-NT/GoRide/internal/redis"
	"github.com/Manh-Duc-NT/GoRide/internal/repository/postgres"
	"github.com/Manh-Duc-NT/GoRide/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database and Redis clients can
	// be instrumented.
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
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	var geocoder service.Geocoder
	if cfg.Geocoding.APIKey != "" {
		gc, err := service.NewGeocodingService(cfg.Geocoding.APIKey)
		if err != nil {
			log.WithError(err).Warn("failed to initialize geocoding, addresses will be placeholders")
		} else {
			geocoder = gc
		}
	}

	server, refresher := wireServer(db, redisClient, nrApp, geocoder, cfg, log)

	// Run the candidate refresher until shutdown.
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Run(refreshCtx)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	stopRefresh()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus
// the background candidate refresher.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	geocoder service.Geocoder,
	cfg *config.Config,
	log *logrus.Logger,
) (*http.Server, *service.CandidateRefresher) {
	// Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	customerRepo := postgres.NewCustomerRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	transactor := postgres.NewTransactor(db)

	// Realtime hub and services.
	hub := realtime.NewHub(log)
	notifier := service.NewNotificationService(hub, log)
	matchingService := service.NewMatchingService(rideRepo, driverRepo)
	rideService := service.NewRideService(transactor, rideRepo, geocoder, cacheStore, notifier, log)
	tripService := service.NewTripService(transactor, rideRepo, driverRepo, lockStore, cacheStore, notifier, log)
	driverService := service.NewDriverService(driverRepo, rideRepo, locationStore, cacheStore, geocoder, log)
	ratingService := service.NewRatingService(rideRepo)
	userService := service.NewUserService(customerRepo, driverRepo)
	refresher := service.NewCandidateRefresher(matchingService, cacheStore, hub, cfg.Matching.RefreshInterval, log)

	// Handlers.
	rideHandler := handler.NewRideHandler(rideService, ratingService)
	tripHandler := handler.NewTripHandler(tripService)
	driverHandler := handler.NewDriverHandler(driverService, matchingService, cfg.Matching.DefaultRadiusKm)
	userHandler := handler.NewUserHandler(userService, rideService)
	geocodeHandler := handler.NewGeocodeHandler(geocoder)
	wsHandler := handler.NewWSHandler(hub, log)

	router := app.NewRouter(app.RouterDeps{
		RideHandler:    rideHandler,
		TripHandler:    tripHandler,
		DriverHandler:  driverHandler,
		UserHandler:    userHandler,
		GeocodeHandler: geocodeHandler,
		WSHandler:      wsHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return server, refresher
}
