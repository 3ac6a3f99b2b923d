package domain

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Escopos aceitos nos tokens
const (
	ScopeInsightsRead = "insights:read"
	ScopeReportsRun   = "reports:run"
)

var AllScopes = []string{ScopeInsightsRead, ScopeReportsRun}

type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
