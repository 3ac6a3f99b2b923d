package apiErrors

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/insights-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken      = "AUTH_006" // Token inválido
	ErrExpiredToken      = "AUTH_007" // Token expirado
	ErrInsufficientScope = "AUTH_008" // Escopo insuficiente
	ErrInvalidAPIKey     = "AUTH_011" // Chave de API inválida

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrRouteNotFound       = "VAL_004" // Rota inexistente
	ErrMethodNotAllowed    = "VAL_005" // Método não suportado pela rota

	// Erros de configuração (3000-3999)
	ErrConfiguration = "CFG_001" // Credencial ou configuração ausente

	// Erros do servidor (5000-5999)
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // Erro em serviço externo
	ErrCommunication   = "SRV_004" // Erro de comunicação
	ErrUpstreamTimeout = "SRV_005" // Fonte externa não respondeu a tempo
	ErrAlreadyRunning  = "SRV_006" // Execução já em andamento
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInsufficientScope:   http.StatusForbidden,
	ErrInvalidAPIKey:       http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrRouteNotFound:       http.StatusNotFound,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrConfiguration:       http.StatusInternalServerError,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrCommunication:       http.StatusServiceUnavailable,
	ErrUpstreamTimeout:     http.StatusGatewayTimeout,
	ErrAlreadyRunning:      http.StatusConflict,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP de um código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// WriteDomainError traduz os erros do motor para o código de API correspondente
func WriteDomainError(w http.ResponseWriter, err error) {
	apiErr := FromDomainError(err)
	WriteError(w, apiErr.Code, apiErr.Message, apiErr.Details)
}

// FromDomainError percorre a cadeia do erro e escolhe o código mais específico
func FromDomainError(err error) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	var invalidArgErr *domain.InvalidArgumentError
	if errors.As(err, &invalidArgErr) {
		apiErr := APIError{Code: ErrInvalidRequest, Message: invalidArgErr.Details}
		if invalidArgErr.Field != "" {
			apiErr.Details = map[string]string{"field": invalidArgErr.Field}
		}
		return apiErr
	}

	var configErr *domain.ConfigurationError
	if errors.As(err, &configErr) {
		return APIError{Code: ErrConfiguration, Message: configErr.Error()}
	}

	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		details := map[string]any{"source": upstreamErr.Source, "status": upstreamErr.Status}

		switch {
		case upstreamErr.IsTimeout():
			return APIError{Code: ErrUpstreamTimeout, Message: "a fonte de dados não respondeu a tempo", Details: details}
		case upstreamErr.Temporary:
			return APIError{Code: ErrCommunication, Message: "a fonte de dados está indisponível", Details: details}
		}
		return APIError{Code: ErrExternalService, Message: upstreamErr.Error(), Details: details}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return APIError{Code: ErrUpstreamTimeout, Message: "tempo limite da consulta excedido"}
	}

	return FromError(err, ErrInternalServer)
}

// FromError cria um erro de API a partir de um erro Go
// Útil para quando você quer envolver um erro existente em um erro de API
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
