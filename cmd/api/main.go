package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"drought-watch-api/config"
	"drought-watch-api/handlers"
	"drought-watch-api/middleware"
	"drought-watch-api/models"
	"drought-watch-api/services"
	"drought-watch-api/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Select the data source
	var (
		db          *gorm.DB
		predictions store.PredictionStore
		users       store.UserStore
	)
	if cfg.Store.Driver == "memory" {
		log.Println("Using in-memory store; content routes disabled")
		predictions = store.NewMemoryStore()
		users = store.NewMemoryUserStore()
	} else {
		db, err = gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get sql db handle: %v", err)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		if err := db.AutoMigrate(
			&models.User{}, &models.Prediction{},
			&models.News{}, &models.Event{}, &models.Researcher{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		predictions = store.NewGormStore(db)
		users = store.NewGormUserStore(db)
	}

	// Services
	authService := services.NewAuthService(cfg.JWT)
	predictionService := services.NewPredictionService(predictions)

	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
	}

	if err := seedAdmin(users, authService, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.SetupCORS(cfg.CORS))
	router.Use(middleware.Metrics())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "UP",
			"message": "DroughtWatch API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(users, authService)
	predictionHandler := handlers.NewPredictionHandler(predictionService, cache)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		preds := api.Group("/predictions")
		preds.GET("", predictionHandler.List)
		preds.GET("/:id", predictionHandler.Get)

		// Mutations authenticate here; the admin check itself runs inside
		// the service, before any store access.
		predsAdmin := api.Group("/predictions")
		predsAdmin.Use(middleware.RequireAuth(authService))
		predsAdmin.POST("", predictionHandler.Create)
		predsAdmin.PUT("/:id", predictionHandler.Update)
		predsAdmin.DELETE("/:id", predictionHandler.Delete)

		if db != nil {
			registerContentRoutes(api, db, authService)
		}
	}

	router.GET("/ws/live", handlers.LiveWebSocket(cache, authService))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func registerContentRoutes(api *gin.RouterGroup, db *gorm.DB, authService *services.AuthService) {
	admin := func(g *gin.RouterGroup) *gin.RouterGroup {
		g.Use(middleware.RequireAuth(authService), middleware.RequireAdmin())
		return g
	}

	newsHandler := handlers.NewNewsHandler(db)
	api.GET("/news", newsHandler.List)
	api.GET("/news/:id", newsHandler.Get)
	newsAdmin := admin(api.Group("/news"))
	newsAdmin.POST("", newsHandler.Create)
	newsAdmin.PUT("/:id", newsHandler.Update)
	newsAdmin.DELETE("/:id", newsHandler.Delete)

	eventsHandler := handlers.NewEventsHandler(db)
	api.GET("/events", eventsHandler.List)
	api.GET("/events/:id", eventsHandler.Get)
	eventsAdmin := admin(api.Group("/events"))
	eventsAdmin.POST("", eventsHandler.Create)
	eventsAdmin.PUT("/:id", eventsHandler.Update)
	eventsAdmin.DELETE("/:id", eventsHandler.Delete)

	researchersHandler := handlers.NewResearchersHandler(db)
	api.GET("/researchers", researchersHandler.List)
	api.GET("/researchers/:id", researchersHandler.Get)
	researchersAdmin := admin(api.Group("/researchers"))
	researchersAdmin.POST("", researchersHandler.Create)
	researchersAdmin.PUT("/:id", researchersHandler.Update)
	researchersAdmin.DELETE("/:id", researchersHandler.Delete)
}

// seedAdmin creates the configured admin account if it does not exist yet.
// Skipped when ADMIN_PASSWORD is unset.
func seedAdmin(users store.UserStore, authService *services.AuthService, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		return nil
	}

	_, err := users.GetByEmail(context.Background(), cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := authService.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     cfg.Name,
		Email:    cfg.Email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(context.Background(), &admin); err != nil {
		return err
	}
	log.Printf("Seeded admin user %s", cfg.Email)
	return nil
}
