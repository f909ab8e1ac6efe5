package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"petwalk/internal/handler"
	"petwalk/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	WalkerHandler  *handler.WalkerHandler
	ClientHandler  *handler.ClientHandler
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

	// Health check and metrics.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Event stream.
	if deps.WSHandler != nil {
		router.GET("/ws", deps.WSHandler.Subscribe)
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Client routes.
		clients := v1.Group("/clients")
		{
			clients.POST("", deps.ClientHandler.RegisterClient)
			clients.POST("/:id/pets", deps.ClientHandler.RegisterPet)
			clients.GET("/:id/pets", deps.ClientHandler.ListPets)
			clients.GET("/:id/bookings", deps.BookingHandler.ListByClient)
		}

		// Walker routes.
		walkers := v1.Group("/walkers")
		{
			walkers.POST("", deps.WalkerHandler.RegisterWalker)
			walkers.GET("/:id", deps.WalkerHandler.GetWalker)
			walkers.PUT("/:id/location", deps.WalkerHandler.UpdateLocation)
			walkers.GET("/:id/bookings", deps.BookingHandler.ListByWalker)
			walkers.POST("/match", deps.WalkerHandler.Match)
		}

		// Booking routes.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("/:id", deps.BookingHandler.GetBooking)
			bookings.POST("/:id/accept", deps.BookingHandler.AcceptBooking)
			bookings.POST("/:id/start", deps.BookingHandler.StartWalk)
			bookings.POST("/:id/complete", deps.BookingHandler.CompleteWalk)
			bookings.POST("/:id/terminate", deps.BookingHandler.TerminateEarly)
			bookings.POST("/:id/cancel", deps.BookingHandler.CancelBooking)
			bookings.POST("/:id/route", deps.BookingHandler.AppendRoutePoint)
			bookings.GET("/:id/route", deps.BookingHandler.GetRoute)
		}

		// Admin routes.
		admin := v1.Group("/admin")
		{
			admin.PUT("/walkers/:id/status", deps.WalkerHandler.SetWalkerStatus)
		}
	}

	return router
}
