package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/authenticating"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"github.com/vfg2006/insights-engine/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"

	HeaderAPIKey = "X-API-Key"
)

var publicPaths = map[string]struct{}{
	"/healthcheck": {},
	"/metrics":     {},
}

// AuthMiddleware aceita Authorization: Bearer <jwt> ou X-API-Key
func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authenticate(authService, r)
			if err != nil {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				}).Warn("auth: request rejected")

				apiErrors.WriteError(w, authenticating.CodeFor(err), "Não autorizado", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NoAuth libera todas as rotas com todos os escopos, para AUTH_DISABLED=true
func NoAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ContextKeyUser, &domain.Claims{Scopes: domain.AllScopes})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(authService authenticating.Authenticator, r *http.Request) (*domain.Claims, error) {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return authService.ValidateAPIKey(key)
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, authenticating.NewAuthError(authenticating.ErrMissingCredentials, apiErrors.ErrInvalidToken, "Authorization header is required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, authenticating.NewAuthError(authenticating.ErrMissingCredentials, apiErrors.ErrInvalidToken, "Bearer token is required")
	}

	return authService.ValidateToken(tokenString)
}

// ClaimsFromContext retorna as claims gravadas pelo AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok
}
