package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys.
type contextKey string

const (
	// ClaimsContextKey is the context key for JWT claims.
	ClaimsContextKey contextKey = "claims"
)

// Claims represents JWT claims. There is no user database; every token is
// minted against the configured API key and represents the inbox owner.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTAuth handles JWT authentication.
type JWTAuth struct {
	secret []byte
	expiry time.Duration
	apiKey string
}

// NewJWTAuth creates a new JWT authenticator.
func NewJWTAuth(secret string, expiry time.Duration) *JWTAuth {
	return &JWTAuth{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// SetAPIKey sets the API key accepted for direct header access and for the
// token exchange endpoint.
func (j *JWTAuth) SetAPIKey(apiKey string) {
	j.apiKey = apiKey
}

// CheckAPIKey reports whether the given key matches the configured one.
func (j *JWTAuth) CheckAPIKey(key string) bool {
	return j.apiKey != "" && key == j.apiKey
}

// GenerateToken generates a new JWT token for the named caller.
func (j *JWTAuth) GenerateToken(name string) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.expiry)

	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "agentbox",
			Subject:   name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates and parses a JWT token.
func (j *JWTAuth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Middleware returns authentication middleware.
// Supports both Bearer token (JWT) and X-API-Key header authentication.
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var claims *Claims

		// Check for API key first
		apiKey := r.Header.Get("X-API-Key")
		if apiKey != "" {
			if j.apiKey == "" {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "API key authentication not configured")
				return
			}
			if apiKey != j.apiKey {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid API key")
				return
			}
			claims = &Claims{Name: "api-key"}
		} else {
			// Fall back to JWT authentication
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			var err error
			claims, err = j.ValidateToken(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClaims extracts claims from context.
func GetClaims(ctx context.Context) *Claims {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}
