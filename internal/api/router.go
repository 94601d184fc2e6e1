// Package api assembles the HTTP surface of the premium calculator.
package api

import (
	"net/http"

	"premium-calc/internal/api/handlers"
	"premium-calc/internal/api/middleware"
	"premium-calc/internal/config"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes. It does not change the gin mode.
func NewRouter(cfg *config.Config, store handlers.RateStore) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	productHandler := handlers.NewProductHandler(store)
	premiumHandler := handlers.NewPremiumHandler(store)
	ratesHandler := handlers.NewRatesHandler(store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/products", productHandler.ListProducts)

		api.POST("/premiums", premiumHandler.Calculate)
		api.POST("/premiums/export", premiumHandler.Export)

		api.GET("/rates", ratesHandler.Status)
		api.POST("/rates/reload", ratesHandler.Reload)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
