package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AccessTokenMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userId"))
	})
	r.GET("/admin", AccessTokenMiddleware(), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/refresh", RefreshTokenMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return r
}

func do(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAccessTokenMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "access-secret")
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "Bearer "+signed(t, "other-secret", jwt.MapClaims{"userId": "u1", "exp": exp}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/me", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(-time.Minute).Unix()}))
	assert.Equal(t, http.StatusForbidden, w.Code, "expired")

	w = do(r, http.MethodGet, "/me", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"exp": exp}))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no userId claim")

	w = do(r, http.MethodGet, "/me", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"userId": "u1", "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "access-secret")
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := do(r, http.MethodGet, "/admin", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"userId": "u1", "Role": "user", "exp": exp}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/admin", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"userId": "u1", "Role": "admin", "exp": exp}))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRefreshTokenMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "refresh-secret")
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := do(r, http.MethodPost, "/refresh", "Bearer "+signed(t, "access-secret", jwt.MapClaims{"userId": "u1", "exp": exp}))
	assert.Equal(t, http.StatusForbidden, w.Code, "an access token is not a refresh token")

	w = do(r, http.MethodPost, "/refresh", "Bearer "+signed(t, "refresh-secret", jwt.MapClaims{"userId": "u1", "exp": exp}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}
