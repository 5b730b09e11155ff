package middleware

import (
	"net/http"
	"strings"

	"devicedesk/services/session"
	"devicedesk/utils"

	"github.com/gin-gonic/gin"
)

// UserKey is the Gin context key the authenticated username is stored under.
const UserKey = "user"

// JWTAuthMiddleware authenticates requests with a Bearer token. The token
// must carry a valid signature and expiry, and its hash must still be
// present in the session store (logout revokes it). On success the username
// is placed in the context under UserKey.
func JWTAuthMiddleware(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		username, err := utils.ExtractUsernameFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// The session store is the revocation list: a valid signature alone
		// is not enough once the user has logged out.
		sess, err := sessions.Get(c.Request.Context(), utils.HashToken(tokenString))
		if err != nil || sess == nil || sess.Username != username {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or revoked"})
			return
		}

		c.Set(UserKey, username)
		c.Next()
	}
}
