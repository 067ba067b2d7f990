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

	"back_stream/internal/config"
)

const (
	testSecret = "test-secret"
	testUserID = "7b2e09a8-6f5d-4c0e-9a3b-1f2d3e4c5b6a"
)

func newAuthRouter(t *testing.T, mw gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.GlobalConfig = &config.Config{JWTSecret: testSecret}

	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id"))
	})
	return router
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOptionalJWTMiddleware_NoHeaderPassesThrough(t *testing.T) {
	router := newAuthRouter(t, OptionalJWTMiddleware())

	w := get(router, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestOptionalJWTMiddleware_ValidTokenSetsViewer(t *testing.T) {
	router := newAuthRouter(t, OptionalJWTMiddleware())
	token := signedToken(t, jwt.MapClaims{
		"user_id": testUserID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUserID, w.Body.String())
}

func TestOptionalJWTMiddleware_GarbageTokenStaysAnonymous(t *testing.T) {
	router := newAuthRouter(t, OptionalJWTMiddleware())

	w := get(router, "Bearer not.a.token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestOptionalJWTMiddleware_NonUUIDClaimStaysAnonymous(t *testing.T) {
	router := newAuthRouter(t, OptionalJWTMiddleware())
	token := signedToken(t, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestJWTMiddleware_MissingHeaderRejected(t *testing.T) {
	router := newAuthRouter(t, JWTMiddleware())

	w := get(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_ValidTokenSetsViewer(t *testing.T) {
	router := newAuthRouter(t, JWTMiddleware())
	token := signedToken(t, jwt.MapClaims{
		"user_id": testUserID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testUserID, w.Body.String())
}
