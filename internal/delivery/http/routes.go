package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pricio/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/stores", handler.ListStores)
		v1.POST("/price-per-unit", handler.PricePerUnit)

		store := v1.Group("/stores/:storeId")
		{
			store.GET("/search", handler.Search)
			store.POST("/similar", handler.SimilarInStore)
			store.POST("/cross-store", handler.CrossStoreCandidates)
			store.POST("/cross-store/best", handler.BestCrossStoreMatch)
			store.POST("/import", handler.ImportCatalog)

			product := store.Group("/products/:productId")
			{
				product.GET("/comparison", handler.CompareProduct)
				product.GET("/history", handler.PriceHistory)
				product.POST("/alerts", handler.CreateAlert)
			}
		}
	}

	return router
}
