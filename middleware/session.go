package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gameness/services"
)

// GameSession validates the round token issued by StartGame and exposes the
// bound player and round id to the handler. This is what ties the two
// requests of one turn to the same round.
func GameSession(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "missing game session token"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := services.ParseGameToken(jwtSecret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "invalid game session token"})
			c.Abort()
			return
		}

		c.Set("player", claims.Player)
		c.Set("game_id", claims.GameID)
		c.Next()
	}
}
