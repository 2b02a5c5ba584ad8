package http

import (
	"github.com/gin-gonic/gin"
	"github.com/vinoteca/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		// Public catalog endpoints
		wines := api.Group("/wines")
		{
			wines.GET("", handler.ListWines)
			wines.GET("/search", handler.SearchWines)
		}

		// Public pairing endpoints
		pairings := api.Group("/pairings")
		{
			pairings.GET("/dishes", handler.ListDishes)
			pairings.GET("/suggest", handler.SuggestPairings)
		}

		// Account endpoints
		users := api.Group("/users")
		{
			users.POST("/register", handler.Register)
			users.POST("/login", handler.Login)

			protected := users.Group("")
			protected.Use(AuthRequired(handler.auth))
			{
				protected.GET("/profile", handler.Profile)
				protected.GET("/favorites", handler.ListFavorites)
				protected.POST("/favorites/:wineID", handler.AddFavorite)
				protected.DELETE("/favorites/:wineID", handler.RemoveFavorite)
			}
		}
	}

	return router
}
