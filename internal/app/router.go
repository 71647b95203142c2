package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleet/internal/handler"
	"fleet/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CompanyHandler *handler.CompanyHandler
	DriverHandler  *handler.DriverHandler
	VehicleHandler *handler.VehicleHandler
	TripHandler    *handler.TripHandler
	UserHandler    *handler.UserHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		companies := v1.Group("/companies")
		{
			companies.POST("", deps.CompanyHandler.Create)
			companies.GET("", deps.CompanyHandler.GetAll)
			companies.GET("/search", deps.CompanyHandler.Search)
			companies.GET("/:id", deps.CompanyHandler.Get)
			companies.PATCH("/:id", deps.CompanyHandler.Update)
			companies.DELETE("/:id", deps.CompanyHandler.Delete)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Create)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/search", deps.DriverHandler.Search)
			drivers.GET("/:id", deps.DriverHandler.Get)
			drivers.PATCH("/:id", deps.DriverHandler.Update)
			drivers.DELETE("/:id", deps.DriverHandler.Delete)
		}

		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Create)
			vehicles.GET("", deps.VehicleHandler.GetAll)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
			vehicles.PATCH("/:id", deps.VehicleHandler.Update)
			vehicles.DELETE("/:id", deps.VehicleHandler.Delete)
		}

		trips := v1.Group("/trips")
		{
			trips.POST("", deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.PATCH("/:id", deps.TripHandler.Update)
			trips.DELETE("/:id", deps.TripHandler.Delete)
		}

		users := v1.Group("/users")
		{
			users.POST("", deps.UserHandler.Create)
			users.GET("", deps.UserHandler.GetAll)
			users.GET("/:id", deps.UserHandler.Get)
			users.PATCH("/:id", deps.UserHandler.Update)
			users.DELETE("/:id", deps.UserHandler.Delete)
		}
	}

	return router
}
