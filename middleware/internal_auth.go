package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/Aditya0Kumar/trackr-sub000/models"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware guards provisioning endpoints with a shared X-Internal-Auth token
func InternalAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authToken := c.GetHeader("X-Internal-Auth")

		if token == "" || subtle.ConstantTimeCompare([]byte(authToken), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "forbidden"})
			return
		}

		c.Next()
	}
}
