package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yishak-cs/coffees/internal/app"
	"github.com/yishak-cs/coffees/internal/database"
	"github.com/yishak-cs/coffees/internal/handlers"
	"github.com/yishak-cs/coffees/pkg/helper"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	config := helper.LoadConfigFromEnv()
	application, err := app.New(config, false)
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
	defer application.Close()

	if config.SeedFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if _, err := application.Importer.ImportFile(ctx, config.SeedFile); err != nil {
			cancel()
			log.Printf("Import failed: %v", err)
			return
		}
		cancel()
	}

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	healthChecks := map[string]handlers.HealthChecker{
		"database": func(ctx context.Context) error { return database.Health(ctx, application.DB) },
	}
	if application.Graph != nil {
		healthChecks["graph"] = application.Graph.Health
	}

	apiHandler := handlers.NewAPIHandler(
		application.Coffees,
		application.Recommendations,
		application.Similarity,
		healthChecks,
	)

	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiHandler.SetupRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("Server exited properly")
}
