package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecret = []byte("middleware-test-secret")

func sign(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func echoSubject() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ExternalIDFromContext(r.Context())))
	})
}

func TestRequireAuth(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	handler := mw.RequireAuth(echoSubject())

	valid := sign(t, jwt.MapClaims{"sub": "auth0|123", "exp": time.Now().Add(time.Hour).Unix()}, testSecret)

	tests := []struct {
		name       string
		authz      string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "auth0|123"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not a bearer token", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, ""},
		{
			"wrong secret",
			"Bearer " + sign(t, jwt.MapClaims{"sub": "auth0|123"}, []byte("other-secret")),
			http.StatusUnauthorized, "",
		},
		{
			"expired token",
			"Bearer " + sign(t, jwt.MapClaims{"sub": "auth0|123", "exp": time.Now().Add(-time.Hour).Unix()}, testSecret),
			http.StatusUnauthorized, "",
		},
		{
			"missing subject",
			"Bearer " + sign(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testSecret),
			http.StatusUnauthorized, "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authz != "" {
				req.Header.Set("Authorization", tt.authz)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestExternalIDFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExternalIDFromContext(req.Context()))
}

func TestRateLimiterPerSubject(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	rl := NewRateLimiter(2, zap.NewNop())
	t.Cleanup(rl.Stop)

	handler := mw.RequireAuth(rl.Limit(echoSubject()))

	do := func(subject string) int {
		token := sign(t, jwt.MapClaims{"sub": subject, "exp": time.Now().Add(time.Hour).Unix()}, testSecret)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("auth0|a"))
	assert.Equal(t, http.StatusOK, do("auth0|a"))
	assert.Equal(t, http.StatusTooManyRequests, do("auth0|a"))

	// A different subject has its own bucket.
	assert.Equal(t, http.StatusOK, do("auth0|b"))
}

func TestLimitWithoutAuthContext(t *testing.T) {
	rl := NewRateLimiter(10, zap.NewNop())
	t.Cleanup(rl.Stop)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	rl.Limit(echoSubject()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
