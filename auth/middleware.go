package auth

import (
	"net/http"
	"strings"
	"team-chat/errors"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "user_id"
	RolesKey  = "roles"
)

// TokenFromRequest reads the bearer token, falling back to the "token" query
// parameter since browsers cannot set headers on a websocket upgrade.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// Authenticate resolves the caller of r.
func (m *TokenManager) Authenticate(r *http.Request) (*CustomClaims, error) {
	return m.ValidateToken(TokenFromRequest(r))
}

// RequireAuth rejects unauthenticated requests with 401 and exposes the user id to handlers.
func RequireAuth(m *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.Authenticate(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errors.PublicMessage(err)})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(RolesKey, claims.Roles)
		c.Next()
	}
}

// UserID returns the id set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
