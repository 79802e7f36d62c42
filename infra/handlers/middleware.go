package handlers

import (
	"net/http"
	"strings"

	"storefront-service/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "storefront_session"

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Id")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// AuthMiddleware guards the admin surface with a bearer token issued by
// the login endpoint.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := security.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// SessionMiddleware attaches a stable session identifier to every
// request: the X-Session-Id header when the caller manages its own, a
// cookie otherwise, minted on first contact. Purchase flow state is
// keyed by it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-Session-Id"); id != "" {
			c.Set("session_id", id)
			c.Next()
			return
		}

		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.New().String()
			c.SetCookie(sessionCookie, id, 30*24*3600, "/", "", false, true)
		}
		c.Set("session_id", id)
		c.Next()
	}
}
