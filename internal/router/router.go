// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stocksense/inventory-backend/internal/config"
	"github.com/stocksense/inventory-backend/internal/handlers"
	"github.com/stocksense/inventory-backend/internal/middleware"
	"github.com/stocksense/inventory-backend/internal/repository"
	"github.com/stocksense/inventory-backend/internal/services"
	"github.com/stocksense/inventory-backend/internal/utils"
)

// Initialize wires repositories, services and handlers into the HTTP router.
// The enrichment service is returned alongside so main can hand it to the
// scheduler without re-building the dependency graph.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, *services.EnrichmentService) {
	// Repositories
	inventoryRepo := repository.NewInventoryRepository(db)
	forecastRepo := repository.NewForecastRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Services
	notificationService := services.NewNotificationService(cfg)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Storage service unavailable, uploads disabled")
	}

	authService := services.NewAuthService(db, cfg, notificationService)
	forecastService := services.NewForecastService(inventoryRepo, forecastRepo, notificationService, cfg.Email.AlertRecipients)
	productService := services.NewProductService(db, storageService)
	indicatorService := services.NewIndicatorService(db)
	recordPool := services.NewCSVRecordPool(cfg.Enrichment.SourcePoolPath, nil)
	enrichmentService := services.NewEnrichmentService(
		productRepo,
		storageService,
		recordPool,
		cfg.Enrichment.SampleSize,
		time.Duration(cfg.Enrichment.RemoteTimeout)*time.Second,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	inventoryHandler := handlers.NewInventoryHandler(forecastService)
	productHandler := handlers.NewProductHandler(productService)
	dataHandler := handlers.NewDataHandler(recordPool, cfg.Enrichment.SampleSize)
	indicatorHandler := handlers.NewIndicatorHandler(indicatorService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/users", middleware.AuthRequired(), authHandler.ListUsers)
		}

		// Inventory and forecast routes
		inventory := v1.Group("/inventory")
		inventory.Use(middleware.AuthRequired())
		{
			inventory.POST("", inventoryHandler.SubmitInventory)
			inventory.POST("/forecast", inventoryHandler.SubmitForecast)
			inventory.GET("/report/:productId", inventoryHandler.GetReport)
		}

		// Product routes
		products := v1.Group("/products")
		products.Use(middleware.AuthRequired())
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.POST("/:id/dataset", middleware.UploadRateLimit(), productHandler.UploadDataset)
			products.POST("/:id/image", middleware.UploadRateLimit(), productHandler.UploadImage)
		}

		// Sample data routes (public)
		v1.GET("/data", dataHandler.GetRandomData)

		// Economic indicator routes
		indicators := v1.Group("/economic-indicators")
		{
			indicators.GET("", indicatorHandler.Get)

			protected := indicators.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", indicatorHandler.Create)
				protected.PATCH("", indicatorHandler.Update)
				protected.DELETE("", indicatorHandler.DeleteAll)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r, enrichmentService
}
