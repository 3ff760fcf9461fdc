package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Manh-Duc-NT/GoRide/internal/handler"
	"github.com/Manh-Duc-NT/GoRide/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	TripHandler    *handler.TripHandler
	DriverHandler  *handler.DriverHandler
	UserHandler    *handler.UserHandler
	GeocodeHandler *handler.GeocodeHandler
	WSHandler      *handler.WSHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Customer routes.
		customers := v1.Group("/customers")
		{
			customers.POST("", deps.UserHandler.RegisterCustomer)
			customers.GET("/:id", deps.UserHandler.GetCustomer)
			customers.GET("/:id/rides", deps.UserHandler.CustomerRides)
			customers.GET("/:id/rides/open", deps.UserHandler.OpenRide)
		}

		// Ride lifecycle routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.TripHandler.AcceptRide)
			rides.POST("/:id/pickup", deps.TripHandler.ConfirmPickup)
			rides.POST("/:id/complete", deps.TripHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/location", deps.TripHandler.UpdateLocation)
			rides.POST("/:id/rating", deps.RideHandler.RateRide)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.UserHandler.RegisterDriver)
			drivers.GET("/nearby", deps.DriverHandler.Nearby)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.POST("/:id/online", deps.DriverHandler.GoOnline)
			drivers.POST("/:id/offline", deps.DriverHandler.GoOffline)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.GET("/:id/candidates", deps.DriverHandler.Candidates)
			drivers.GET("/:id/earnings", deps.DriverHandler.Earnings)
			drivers.PUT("/:id/verification", deps.DriverHandler.SetVerification)
			drivers.PUT("/:id/blocked", deps.DriverHandler.SetBlocked)
		}

		// Place search routes.
		places := v1.Group("/places")
		{
			places.GET("/autocomplete", deps.GeocodeHandler.Autocomplete)
			places.GET("/reverse", deps.GeocodeHandler.ReverseGeocode)
			places.GET("/:place_id", deps.GeocodeHandler.PlaceDetail)
		}

		// Realtime subscriptions.
		v1.GET("/ws/:role/:id", deps.WSHandler.Subscribe)
	}

	return router
}
