package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware accepts HS256 bearer tokens and puts the subject claim in
// the request context as the user id.
func AuthMiddleware(secret []byte, logger logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, logger, fmt.Errorf("%w: authorization header is required", domain.ErrUnauthorized))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, logger, fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthorized))
				return
			}

			userID, err := parseToken(parts[1], secret)
			if err != nil {
				logger.WithError(err).Warn("Rejected bearer token")
				writeError(w, logger, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseToken(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("token is not valid")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// UserID returns the authenticated user for a request that passed AuthMiddleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
