package authenticating

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, secret, apiKey string) *Service {
	t.Helper()

	cfg := &config.Config{Auth: config.Auth{Secret: secret}}
	if apiKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.Auth.APIKeyHash = string(hash)
	}

	return NewService(cfg).(*Service)
}

func TestService_ValidateToken(t *testing.T) {
	tests := []struct {
		name     string
		token    func(t *testing.T, s *Service) string
		validate func(t *testing.T, claims *domain.Claims, err error)
	}{
		{
			name: "Deve aceitar token emitido com o mesmo segredo",
			token: func(t *testing.T, s *Service) string {
				token, err := s.GenerateToken("dashboard", []string{domain.ScopeInsightsRead}, time.Hour)
				require.NoError(t, err)
				return token
			},
			validate: func(t *testing.T, claims *domain.Claims, err error) {
				require.NoError(t, err)
				assert.Equal(t, "dashboard", claims.Subject)
				assert.True(t, claims.HasScope(domain.ScopeInsightsRead))
				assert.False(t, claims.HasScope(domain.ScopeReportsRun))
			},
		},
		{
			name: "Token expirado",
			token: func(t *testing.T, s *Service) string {
				token, err := s.GenerateToken("dashboard", nil, -time.Minute)
				require.NoError(t, err)
				return token
			},
			validate: func(t *testing.T, claims *domain.Claims, err error) {
				assert.Nil(t, claims)
				assert.ErrorIs(t, err, ErrExpiredToken)
				assert.Equal(t, apiErrors.ErrExpiredToken, CodeFor(err))
			},
		},
		{
			name: "Token assinado com outro segredo",
			token: func(t *testing.T, s *Service) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{}).SignedString([]byte("outro"))
				require.NoError(t, err)
				return token
			},
			validate: func(t *testing.T, claims *domain.Claims, err error) {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Equal(t, apiErrors.ErrInvalidToken, CodeFor(err))
			},
		},
		{
			name: "Algoritmo none é rejeitado",
			token: func(t *testing.T, s *Service) string {
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, domain.Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return token
			},
			validate: func(t *testing.T, claims *domain.Claims, err error) {
				assert.ErrorIs(t, err, ErrInvalidToken)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, "segredo", "")
			claims, err := service.ValidateToken(tt.token(t, service))
			tt.validate(t, claims, err)
		})
	}
}

func TestService_ValidateAPIKey(t *testing.T) {
	service := newTestService(t, "", "chave-secreta")

	claims, err := service.ValidateAPIKey("chave-secreta")
	require.NoError(t, err)
	assert.True(t, claims.HasScope(domain.ScopeReportsRun))

	_, err = service.ValidateAPIKey("errada")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
	assert.Equal(t, apiErrors.ErrInvalidAPIKey, CodeFor(err))

	_, err = service.ValidateToken("qualquer")
	assert.True(t, errors.Is(err, ErrAuthNotConfigured))
}
