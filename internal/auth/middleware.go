package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// RequireIdentity is a gin middleware that enforces authentication. It
// reads the Bearer token from the Authorization header, validates it and
// stores the Identity in the request context. Missing or invalid tokens
// abort with 401 before any tenant-scoped work happens.
func RequireIdentity(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid authentication required"})
			return
		}

		identity, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid authentication required"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireIdentity. Returns (nil, false) on unauthenticated requests.
func IdentityFromContext(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*Identity)
	return identity, ok
}
