package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gameness/handlers"
	"gameness/middleware"
)

func SetupRoutes(router *gin.Engine, gameHandler *handlers.GameHandler, jwtSecret string) {
	// API routes
	api := router.Group("/api")
	{
		games := api.Group("/games")
		{
			games.POST("", gameHandler.StartGame)

			// Clicks carry the round token issued at start.
			clicks := games.Group("/click")
			clicks.Use(middleware.GameSession(jwtSecret))
			clicks.POST("", gameHandler.SubmitClick)
		}

		api.GET("/highscores", gameHandler.GetHighscores)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
