package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by the token middlewares.
const (
	UserIDKey       = "userId"
	RefreshTokenKey = "refreshToken"
)

type AccessTokenParser interface {
	ParseAccessToken(token string) (string, error)
}

type RefreshTokenParser interface {
	ParseRefreshToken(token string) (string, error)
}

// AccessTokenMiddleware rejects requests without a valid access token and
// stores the token's user under UserIDKey.
func AccessTokenMiddleware(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c, "Authorization header is missing")
		if !ok {
			return
		}

		userID, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is expired or invalid"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RefreshTokenMiddleware checks the refresh token's signature and expiry.
// Whether it was revoked is decided by the handler.
func RefreshTokenMiddleware(tokens RefreshTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, ok := bearerToken(c, "Refresh token is missing")
		if !ok {
			return
		}

		userID, err := tokens.ParseRefreshToken(refreshToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(RefreshTokenKey, refreshToken)
		c.Next()
	}
}

func bearerToken(c *gin.Context, missing string) (string, bool) {
	authHeader := c.Request.Header.Get("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": missing})
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
		return "", false
	}
	return parts[1], true
}

// UserID returns the authenticated user set by AccessTokenMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
