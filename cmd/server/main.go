package main

import (
	"log"
	"time"

	"civiceye/config"
	"civiceye/db"
	"civiceye/handlers"
	"civiceye/middleware"
	"civiceye/models"
	"civiceye/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Report{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize evidence blob storage (R2 or local filesystem)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// The public submission endpoint is the abuse-exposed surface
	submitLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many report submissions. Please try again later.",
	})

	// Report lifecycle routes
	e.POST("/reports", handlers.SubmitReportHandler, submitLimiter.Middleware())
	e.GET("/reports", handlers.ListReportsHandler)
	e.GET("/reports/export", handlers.ExportReportsHandler)
	e.GET("/reports/:reportCode", handlers.GetReportHandler)
	e.PUT("/reports/:reportCode", handlers.UpdateReportStatusHandler)

	// Evidence blobs, addressable by filename
	e.GET("/uploads/:filename", handlers.EvidenceFileHandler)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
