package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Erros base do motor de agregação
var (
	ErrConfiguration   = errors.New("configuration error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUpstream        = errors.New("upstream error")
)

// ConfigurationError indica credencial ou configuração ausente. Falha antes de qualquer consulta.
type ConfigurationError struct {
	Key     string
	Details string
}

func (e *ConfigurationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Key, e.Details)
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), e.Key)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func NewConfigurationError(key, details string) *ConfigurationError {
	return &ConfigurationError{Key: key, Details: details}
}

// InvalidArgumentError indica argumento inválido recebido na borda
type InvalidArgumentError struct {
	Field   string
	Details string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidArgument.Error(), e.Details)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidArgument.Error(), e.Field, e.Details)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func NewInvalidArgumentError(field, details string) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Details: details}
}

// UpstreamError representa resposta não-sucesso ou payload malformado de uma fonte remota
type UpstreamError struct {
	Source    string
	Status    int
	Body      string
	Temporary bool
	Err       error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %s returned status %d", ErrUpstream.Error(), e.Source, e.Status)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is permite errors.Is(err, ErrUpstream) mantendo o erro original em Unwrap
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsTimeout indica que a consulta expirou
func (e *UpstreamError) IsTimeout() bool {
	return e.Status == http.StatusGatewayTimeout
}

// NewUpstreamError cria um UpstreamError e classifica se ele é transitório pelo status
func NewUpstreamError(source string, status int, body string) *UpstreamError {
	return &UpstreamError{
		Source:    source,
		Status:    status,
		Body:      body,
		Temporary: IsTransientStatus(status),
	}
}

// NewMalformedPayloadError cria um UpstreamError terminal para payloads que não puderam ser lidos
func NewMalformedPayloadError(source string, err error) *UpstreamError {
	return &UpstreamError{
		Source: source,
		Status: http.StatusBadGateway,
		Body:   "malformed payload",
		Err:    err,
	}
}

// IsTransientStatus retorna true para rate limiting e indisponibilidade temporária
func IsTransientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// PartialDataWarning é anexado ao resultado quando o limite de páginas foi atingido
type PartialDataWarning struct {
	Source string `json:"source"`
	Pages  int    `json:"pages"`
	Reason string `json:"reason"`
}

func NewPageCapWarning(source string, pages int) *PartialDataWarning {
	return &PartialDataWarning{
		Source: source,
		Pages:  pages,
		Reason: fmt.Sprintf("page cap of %d reached before the source reported the last page", pages),
	}
}
