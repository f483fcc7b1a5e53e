package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/xavierca1/rog-store/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// TokenParser valida o bearer token e devolve as claims.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate exige um bearer token válido.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(tokens, r)
			if err != nil || claims == nil {
				msg := "token ausente"
				if err != nil {
					msg = err.Error()
				}
				deny(w, http.StatusUnauthorized, "UNAUTHORIZED", msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth anexa as claims quando há token válido e segue sem elas caso contrário.
func OptionalAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, err := parseBearer(tokens, r); err == nil && claims != nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin deve vir depois de Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := Claims(r.Context())
		if claims == nil || !claims.IsAdmin {
			deny(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito à equipe")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseBearer(tokens TokenParser, r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, nil
	}
	return tokens.Parse(strings.TrimSpace(token))
}

func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func Claims(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

// CustomerID devolve "" para requisições anônimas.
func CustomerID(ctx context.Context) string {
	if c := Claims(ctx); c != nil {
		return c.CustomerID
	}
	return ""
}

func deny(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}
