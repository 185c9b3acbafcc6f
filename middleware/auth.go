package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"livwell/models"
	"livwell/utils"
)

// Key type for context
type contextKey string

var errInvalidHeader = errors.New("invalid authorization header")

const (
	UserContextKey    = contextKey("user")
	SessionContextKey = contextKey("session")
)

func bearerClaims(r *http.Request) (*utils.Claims, bool, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, true, errInvalidHeader
	}

	claims, err := utils.ParseJWT(parts[1])
	if err != nil {
		return nil, true, err
	}
	return claims, true, nil
}

// AuthMiddleware verifies JWT tokens and attaches user information to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := bearerClaims(r)
		if !present {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, errInvalidHeader) {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		// Attach user information to the request context
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the user when a valid token is sent and lets the
// request through as a guest when none is. A bad token is still rejected.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, present, err := bearerClaims(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Claims returns the authenticated user's claims, if any
func Claims(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// CartOwner is the signed-in user when there is one, else the guest session
func CartOwner(ctx context.Context) models.CartOwner {
	if claims, ok := Claims(ctx); ok {
		return models.Authenticated(claims.UserID)
	}
	return models.Guest(SessionID(ctx))
}
