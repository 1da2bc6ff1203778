package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gameness/config"
	"gameness/handlers"
	"gameness/middleware"
	"gameness/models"
	"gameness/routes"
	"gameness/services"
	"gameness/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Game{},
		&models.Turn{},
		&models.SuspectedGame{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	gameStore := store.NewGormStore(db)
	clickBuffer := services.NewRedisClickBuffer(redisClient)
	suspicion := services.NewSuspicionDetector(gameStore, cfg.SuspectedThreshold)
	gameService := services.NewGameService(gameStore, clickBuffer, suspicion, cfg)
	highscoreService := services.NewHighscoreService(gameStore)

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameService, highscoreService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, gameHandler, cfg.JWTSecret)

	// Start server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
