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
)

var testSecret = []byte("test_secret")

func signToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func adminClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  "admin@mistika.mx",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func callProtected(t *testing.T, authz string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()

	var seenEmail string
	h := AdminAuth(testSecret)(func(c echo.Context) error {
		seenEmail, _ = c.Get(CtxAdminEmailKey).(string)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	require.NoError(t, err)
	return rec, seenEmail
}

func TestAdminAuthAllowsAdminToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims())

	rec, email := callProtected(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@mistika.mx", email)
}

func TestAdminAuthMissingHeader(t *testing.T) {
	rec, _ := callProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthMalformedHeader(t *testing.T) {
	rec, _ := callProtected(t, "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthWrongSecret(t *testing.T) {
	token := signToken(t, []byte("other_secret"), jwt.SigningMethodHS256, adminClaims())

	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthExpiredToken(t *testing.T) {
	claims := adminClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Test: 署名が正しくてもroleがadminでなければ403
func TestAdminAuthNonAdminRole(t *testing.T) {
	claims := adminClaims()
	claims["role"] = "customer"
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	rec, _ := callProtected(t, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
