package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/c4-minimax/pkg/auth"
	"github.com/iamasit07/c4-minimax/pkg/httputil"
)

const guestIDKey = "guest_id"

// GuestAuth validates the guest token from the cookie or Authorization header.
func GuestAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := tokens.ValidateGuestToken(tokenString)
		if err != nil {
			httputil.ClearGuestCookie(c.Writer)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(guestIDKey, claims.GuestID)
		c.Next()
	}
}

// GuestID returns the guest set by GuestAuth.
func GuestID(c *gin.Context) string {
	return c.GetString(guestIDKey)
}
