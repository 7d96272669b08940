package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"humdum-app/internal/config"
	"humdum-app/internal/mailer"
	"humdum-app/internal/repository/db"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// UserContextKey carries the resolved user ID through the request context
const UserContextKey contextKey = "user_id"

// Claims is the JWT payload: the user's identifier plus standard claims
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Auth owns the session boundary: token issue/verify, the HTTP middleware,
// and the account handlers in handlers.go
type Auth struct {
	db     db.Database
	config *config.AuthConfig
	mailer mailer.Sender
}

// New creates the auth boundary with its dependencies
func New(database db.Database, authConfig *config.AuthConfig, sender mailer.Sender) *Auth {
	return &Auth{
		db:     database,
		config: authConfig,
		mailer: sender,
	}
}

// GenerateToken issues a signed token carrying the user's identifier
func (a *Auth) GenerateToken(userID string) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.config.TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.config.JWTSecret)
}

// ValidateToken parses and verifies a token string
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.config.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// Middleware resolves the bearer credential to a user ID before any
// business logic runs
func (a *Auth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			sendError(w, http.StatusUnauthorized, "Missing authorization header", nil)
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			sendError(w, http.StatusUnauthorized, "Invalid authorization header format", nil)
			return
		}

		claims, err := a.ValidateToken(bearerToken[1])
		if err != nil {
			sendError(w, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserID extracts the resolved user ID from a request that went through
// the middleware
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserContextKey).(string)
	return id
}

// ErrorResponse is the standard JSON error shape
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// sendError sends a standardized JSON error response
func sendError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := ErrorResponse{
		Code:    status,
		Message: message,
	}
	if err != nil {
		errResp.Error = err.Error()
	}
	json.NewEncoder(w).Encode(errResp)
}
