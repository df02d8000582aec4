package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-backend/internal/config"
)

func signToken(t *testing.T, secret, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func doRequest(cfg *config.Auth, token string, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()

	handler := func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]uint{"user_id": UserID(c)})
	}
	mws := append([]echo.MiddlewareFunc{JWT(cfg)}, extra...)
	e.GET("/protected", handler, mws...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWT_AcceptsValidToken(t *testing.T) {
	cfg := &config.Auth{JWTSecret: "s3cret"}
	rec := doRequest(cfg, signToken(t, "s3cret", "42", "customer"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42}`, rec.Body.String())
}

func TestJWT_RejectsMissingAndBadTokens(t *testing.T) {
	cfg := &config.Auth{JWTSecret: "s3cret"}

	rec := doRequest(cfg, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(cfg, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(cfg, signToken(t, "other-secret", "42", "customer"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := &config.Auth{JWTSecret: "s3cret"}

	rec := doRequest(cfg, signToken(t, "s3cret", "1", "customer"), RequireAdmin())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(cfg, signToken(t, "s3cret", "1", "admin"), RequireAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)
}
