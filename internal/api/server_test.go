package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/usecases/authenticating"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting/mocks"
	"github.com/vfg2006/insights-engine/pkg/middleware"
	"go.uber.org/mock/gomock"
)

type idleReporter struct{}

func (idleReporter) TriggerManualRun() (string, error) { return "run", nil }
func (idleReporter) GetStatus() map[string]any        { return map[string]any{"running": false} }

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	srv, err := New(cfg, mocks.NewMockCombinedInsighter(ctrl), authenticating.NewService(cfg), idleReporter{})
	require.NoError(t, err)

	return srv.Handler()
}

func TestServer_Routes(t *testing.T) {
	cfg := &config.Config{
		Server:  config.Server{Host: "localhost", Port: "8000", AllowedOrigins: []string{"http://localhost:3000"}},
		Auth:    config.Auth{Secret: "segredo"},
		Metrics: config.Metrics{Enabled: true},
	}
	handler := newTestServer(t, cfg)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "Healthcheck público", method: http.MethodGet, path: "/healthcheck", expectedStatus: http.StatusOK},
		{name: "Métricas públicas", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "Vendas exigem credenciais", method: http.MethodGet, path: "/v1/sales/summary", expectedStatus: http.StatusUnauthorized},
		{name: "Relatório exige credenciais", method: http.MethodPost, path: "/v1/reports/daily/run", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get(middleware.HeaderCorrelationID))
		})
	}
}

func TestServer_AuthDisabledAndMetricsOff(t *testing.T) {
	cfg := &config.Config{
		Auth:    config.Auth{Disabled: true},
		Metrics: config.Metrics{Enabled: false},
	}
	handler := newTestServer(t, cfg)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/reports/daily/run", nil))
	assert.Equal(t, http.StatusAccepted, recorder.Code)
}
