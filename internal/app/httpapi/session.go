package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/verdeviva/plantcare/pkg/logger"
)

type contextKey string

// userIDKey carries the authenticated user id through the request context.
const userIDKey contextKey = "user_id"

// Claims are the session token claims. The user id is the only claim the
// core cares about; everything downstream of the middleware receives it as
// an explicit argument.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Sessions issues and validates the bearer tokens guarding the API.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
}

// NewSessions creates a session gate with an HS256 signing secret.
func NewSessions(secret string, ttl time.Duration, log *logger.Logger) *Sessions {
	if log == nil {
		log = logger.NewDefault("sessions")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, log: log}
}

// Issue mints a token for a user id.
func (s *Sessions) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates a token and returns its user id.
func (s *Sessions) Parse(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID <= 0 {
		return 0, fmt.Errorf("invalid session claims")
	}
	return claims.UserID, nil
}

// Middleware authenticates requests and stores the resolved user id on the
// context. Requests without a valid bearer token never reach a core call.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, fmt.Errorf("missing Authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, fmt.Errorf("invalid Authorization header format"))
			return
		}

		userID, err := s.Parse(parts[1])
		if err != nil {
			s.log.WithError(err).Warn("session token rejected")
			writeError(w, http.StatusUnauthorized, fmt.Errorf("invalid session token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// userID extracts the authenticated user id placed by Middleware.
func userID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDKey).(int64)
	return id, ok && id > 0
}
