package middleware

import (
	"net/http"

	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// RequireScope restringe a rota aos tokens que carregam o escopo informado
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				log.ForContext(r.Context()).Warn("auth: tentativa de acesso sem autenticação")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if !claims.HasScope(scope) {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_subject": claims.Subject,
					"scope":        scope,
				}).Warn("auth: escopo insuficiente")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientScope, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func InsightsReader() func(http.Handler) http.Handler {
	return RequireScope(domain.ScopeInsightsRead)
}

func ReportRunner() func(http.Handler) http.Handler {
	return RequireScope(domain.ScopeReportsRun)
}
