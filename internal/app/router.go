package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"carpool/internal/handler"
	"carpool/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	RideHandler    *handler.RideHandler
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	ReviewHandler  *handler.ReviewHandler
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

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.ListUsers)
			users.GET("/:id", deps.UserHandler.GetUser)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.PATCH("/:id/approval", deps.UserHandler.SetApproval)
			drivers.GET("/:id/rides", deps.RideHandler.ListDriverRides)
			drivers.GET("/:id/bookings", deps.BookingHandler.ListDriverBookings)
			drivers.GET("/:id/reviews", deps.ReviewHandler.ListDriverReviews)
			drivers.GET("/:id/rating", deps.ReviewHandler.GetDriverRating)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.PostRide)
			rides.GET("", deps.RideHandler.SearchRides)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/start", deps.RideHandler.StartRide)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.GET("/:id/bookings", deps.BookingHandler.ListRideBookings)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("", deps.BookingHandler.ListMyBookings)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.GET("/:id/review", deps.ReviewHandler.HasReviewed)
		}

		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("/order", deps.PaymentHandler.CreateOrder)
			payments.POST("/verify", deps.PaymentHandler.VerifyPayment)
			payments.GET("", deps.PaymentHandler.ListMyPayments)
			payments.GET("/received", deps.PaymentHandler.ListReceivedPayments)
		}

		// Payout routes.
		v1.POST("/payouts", deps.PaymentHandler.Transfer)
		v1.GET("/wallet", deps.PaymentHandler.GetWallet)

		// Review routes.
		v1.POST("/reviews", deps.ReviewHandler.SubmitReview)
	}

	return router
}
