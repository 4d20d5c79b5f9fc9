package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authed(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	logger, _ := test.NewNullLogger()

	var seen string
	handler := AuthMiddleware(testSecret, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/loan/history", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	w, userID := authed(t, "Bearer "+signToken(t, "user-42", time.Hour))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "user-42", userID)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"extra parts":    "Bearer a b",
		"expired":        "Bearer " + signToken(t, "user-1", -time.Minute),
		"wrong key":      "Bearer " + otherKey,
		"no subject":     "Bearer " + noSubject,
		"alg none":       "Bearer " + unsigned,
		"not a jwt":      "Bearer not-a-token",
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			w, userID := authed(t, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, userID)
		})
	}
}
