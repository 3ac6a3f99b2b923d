package authenticating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/insights-engine/pkg/apiErrors"
)

// Tipos de erros de autenticação personalizados
var (
	ErrMissingCredentials = errors.New("credenciais ausentes")
	ErrInvalidToken       = errors.New("token inválido")
	ErrExpiredToken       = errors.New("token expirado")
	ErrInvalidAPIKey      = errors.New("chave de API inválida")
	ErrAuthNotConfigured  = errors.New("autenticação não configurada")
)

// AuthError é um erro com contexto adicional para autenticação
type AuthError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError cria um novo erro de autenticação
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// CodeFor retorna o código de API de um erro de autenticação
func CodeFor(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		return authErr.Code
	}
	return apiErrors.ErrInvalidToken
}
