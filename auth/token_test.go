package auth

import (
	"net/http"
	"net/http/httptest"
	"team-chat/errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-long-enough-for-hs256"

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager(secret, time.Hour)

	token, err := manager.GenerateToken("user-123", []string{"admin"})
	req.NoError(err)

	claims, err := manager.ValidateToken(token)
	req.NoError(err)
	req.Equal("user-123", claims.UserID)
	req.Equal([]string{"admin"}, claims.Roles)
}

func TestTokenManager_Rejections(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager(secret, time.Hour)

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager(secret, -time.Minute)
		token, err := expired.GenerateToken("user-123", nil)
		req.NoError(err)
		_, err = manager.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenManager("another-secret", time.Hour).GenerateToken("user-123", nil)
		req.NoError(err)
		_, err = manager.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &CustomClaims{UserID: "user-123", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		req.NoError(err)
		_, err = manager.ValidateToken(token)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := manager.ValidateToken("")
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})
}

func TestTokenFromRequest(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/ws/channels?token=from-query", nil)
	req.Equal("from-query", TokenFromRequest(r))

	// The header wins over the query string
	r.Header.Set("Authorization", "Bearer from-header")
	req.Equal("from-header", TokenFromRequest(r))
}

func TestRequireAuth(t *testing.T) {
	req := require.New(t)
	gin.SetMode(gin.TestMode)
	manager := NewTokenManager(secret, time.Hour)

	router := gin.New()
	router.GET("/me", RequireAuth(manager), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	// Given no token
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	req.Equal(http.StatusUnauthorized, w.Code)

	// Given a valid token
	token, err := manager.GenerateToken("user-123", nil)
	req.NoError(err)
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	req.Equal(http.StatusOK, w.Code)
	req.Equal("user-123", w.Body.String())
}
