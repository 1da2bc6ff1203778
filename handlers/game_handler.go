package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gameness/game"
	"gameness/services"
)

type GameHandler struct {
	gameService      *services.GameService
	highscoreService *services.HighscoreService
}

func NewGameHandler(gameService *services.GameService, highscoreService *services.HighscoreService) *GameHandler {
	return &GameHandler{
		gameService:      gameService,
		highscoreService: highscoreService,
	}
}

func (h *GameHandler) StartGame(c *gin.Context) {
	var req services.StartGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	resp, err := h.gameService.StartGame(c.Request.Context(), req.Player)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "failed to start game"})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *GameHandler) SubmitClick(c *gin.Context) {
	player, exists := c.Get("player")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "no game session"})
		return
	}
	gameID, exists := c.Get("game_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "no game session"})
		return
	}

	var req services.SubmitClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	resp, err := h.gameService.SubmitClick(c.Request.Context(), gameID.(uint), player.(string), req.Click)
	if err != nil {
		status, msg := clickErrorStatus(err)
		c.JSON(status, gin.H{"success": false, "msg": msg})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) GetHighscores(c *gin.Context) {
	player := c.Query("player")

	overview, err := h.highscoreService.Overview(player)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "msg": "failed to load highscores"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// clickErrorStatus maps engine errors onto HTTP statuses: a missing round is
// not found, validation failures are bad requests, anything else is a server
// fault.
func clickErrorStatus(err error) (int, string) {
	switch {
	case services.IsNoActiveGame(err):
		return http.StatusNotFound, "No active game session found."
	case errors.Is(err, game.ErrInvalidClick), errors.Is(err, game.ErrCorruptMove):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "failed to evaluate click"
	}
}
