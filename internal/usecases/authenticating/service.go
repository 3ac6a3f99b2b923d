package authenticating

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

// subject atribuído às chamadas autenticadas por chave de API
const apiKeySubject = "api-key"

type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
	ValidateAPIKey(key string) (*domain.Claims, error)
	GenerateToken(subject string, scopes []string, ttl time.Duration) (string, error)
}

type Service struct {
	cfg config.Auth
	now func() time.Time
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{
		cfg: cfg.Auth,
		now: time.Now,
	}
}

// GenerateToken emite um JWT HS256 para integrações internas
func (s *Service) GenerateToken(subject string, scopes []string, ttl time.Duration) (string, error) {
	if s.cfg.Secret == "" {
		return "", NewAuthError(ErrAuthNotConfigured, apiErrors.ErrConfiguration, "AUTH_SECRET")
	}

	now := s.now()
	claims := domain.Claims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if s.cfg.Secret == "" {
		return nil, NewAuthError(ErrAuthNotConfigured, apiErrors.ErrInvalidToken, "bearer tokens are not accepted")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
}

// ValidateAPIKey compara a chave com o hash bcrypt configurado. A chave recebe todos os escopos.
func (s *Service) ValidateAPIKey(key string) (*domain.Claims, error) {
	if s.cfg.APIKeyHash == "" {
		return nil, NewAuthError(ErrAuthNotConfigured, apiErrors.ErrInvalidAPIKey, "api keys are not accepted")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.APIKeyHash), []byte(key)); err != nil {
		return nil, NewAuthError(ErrInvalidAPIKey, apiErrors.ErrInvalidAPIKey, "")
	}

	return &domain.Claims{
		Scopes:           domain.AllScopes,
		RegisteredClaims: jwt.RegisteredClaims{Subject: apiKeySubject},
	}, nil
}
