package middleware

import (
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/models"
	"github.com/Aditya0Kumar/trackr-sub000/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and stores the actor id under "uid"
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authorization header required"})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set("uid", claims.UserID)
		c.Next()
	}
}
