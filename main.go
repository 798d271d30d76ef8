package main

import (
	"context"
	"log"
	"time"

	"github.com/globaltripmarket/finance-api/config"
	"github.com/globaltripmarket/finance-api/handlers"
	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/models"
	"github.com/globaltripmarket/finance-api/routes"
	"github.com/globaltripmarket/finance-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// The user store is optional: without DATABASE_URL the admin API answers
	// 503 and everything else (webhook-backed) keeps working.
	var userService *services.UserService
	if cfg.DatabaseURL != "" {
		db, err := config.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("✅ Database connected successfully")

		if err := config.RunMigrations(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}

		userService = services.NewUserService(db)
	} else {
		log.Println("⚠️ DATABASE_URL not set, user management disabled")
	}

	if cfg.MockAuthEnabled {
		log.Println("⚠️ Mock auth enabled (development mode)")
	}

	n8nService := services.NewN8NService(
		cfg.DashboardWebhookURL,
		cfg.TransactionWebhookURL,
		cfg.ChatbotWebhookURL,
		cfg.WebhookTimeout,
	)

	wsHandler := handlers.NewWSHandler()

	refresher := services.NewRefresher(n8nService, cfg.RefreshInterval, func(data models.DashboardData) {
		wsHandler.BroadcastRefresh(len(data.Transactions))
	})

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Run(refreshCtx)

	router := gin.Default()

	allowedOrigins := []string{
		cfg.FrontendURL,
		"https://globaltripmarket.com",
		"https://www.globaltripmarket.com",
	}

	log.Printf("🌍 CORS: Allowing origins:")
	for _, origin := range allowedOrigins {
		log.Printf("   - %s", origin)
	}

	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		log.Printf("📨 %s %s from %s", c.Request.Method, c.Request.URL.Path, c.ClientIP())
		c.Next()
		duration := time.Since(start)
		log.Printf("✅ %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration)
	})

	router.Use(middleware.RateLimiter(100, time.Minute))

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, userService, cfg.MockAuthEnabled)

		protected := v1.Group("/")
		protected.Use(middleware.SessionAuth())
		{
			protected.GET("/ws/dashboard", wsHandler.HandleWS)
			routes.SetupDashboardRoutes(protected, n8nService, userService)
			routes.SetupAdminRoutes(protected, userService)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
