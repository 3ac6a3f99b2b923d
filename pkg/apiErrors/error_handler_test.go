package apiErrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Argumento inválido vira 400",
			err:            domain.NewInvalidArgumentError("limit", "limit must be greater than 0"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrInvalidRequest,
		},
		{
			name:           "Configuração ausente vira 500",
			err:            fmt.Errorf("startup: %w", domain.NewConfigurationError("SHOPIFY_ACCESS_TOKEN", "missing")),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrConfiguration,
		},
		{
			name:           "Erro terminal da fonte vira 502",
			err:            fmt.Errorf("funnel step %q: %w", "view", domain.NewUpstreamError("shopify", http.StatusUnauthorized, "bad token")),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   ErrExternalService,
		},
		{
			name:           "Fonte indisponível vira 503",
			err:            domain.NewUpstreamError("stripe", http.StatusTooManyRequests, ""),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrCommunication,
		},
		{
			name:           "Timeout vira 504",
			err:            &domain.UpstreamError{Source: "clickhouse", Status: http.StatusGatewayTimeout, Temporary: true},
			expectedStatus: http.StatusGatewayTimeout,
			expectedCode:   ErrUpstreamTimeout,
		},
		{
			name:           "Erro desconhecido vira 500",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteDomainError(recorder, tt.err)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}

func TestStatusFor_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusFor("XYZ_999"))
}
