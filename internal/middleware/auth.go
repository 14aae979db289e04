package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"couple-scheduler/internal/auth"
)

const UserIDKey = "uid"

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// BearerToken returns the token from "Authorization: Bearer <jwt>".
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth rejects requests without a token with 401 and requests with an
// invalid or expired one with 403.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID is the authenticated caller set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
