package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting/mocks"
	"go.uber.org/mock/gomock"
)

func newTestReportService(insighter insighting.CombinedInsighter, steps []domain.FunnelStep) *DailyReportService {
	return &DailyReportService{
		insighter: insighter,
		config:    DailyReportConfig{CronSchedule: "0 6 * * *", FunnelSteps: steps},
		now:       func() time.Time { return time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC) },
		baseCtx:   context.Background(),
	}
}

func TestParseFunnelSteps(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []domain.FunnelStep
		wantErr  bool
	}{
		{
			name:  "Deve interpretar etapas com eventos alternativos",
			input: []string{"visita:page_view", "carrinho:add_to_cart|cart_view", " compra : purchase "},
			expected: []domain.FunnelStep{
				{Name: "visita", EventNames: []string{"page_view"}},
				{Name: "carrinho", EventNames: []string{"add_to_cart", "cart_view"}},
				{Name: "compra", EventNames: []string{"purchase"}},
			},
		},
		{
			name:     "Deve aceitar configuração vazia",
			input:    []string{""},
			expected: []domain.FunnelStep{},
		},
		{name: "Deve falhar sem separador", input: []string{"visita", "compra:purchase"}, wantErr: true},
		{name: "Deve falhar com etapa sem eventos", input: []string{"visita:", "compra:purchase"}, wantErr: true},
		{name: "Deve falhar com uma única etapa", input: []string{"visita:page_view"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := ParseFunnelSteps(tt.input)
			if tt.wantErr {
				var cfgErr *domain.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, steps)
		})
	}
}

func TestDailyReportService_Run(t *testing.T) {
	yesterday := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	steps := []domain.FunnelStep{
		{Name: "visita", EventNames: []string{"page_view"}},
		{Name: "compra", EventNames: []string{"purchase"}},
	}

	t.Run("Deve calcular resumo e funil do dia anterior", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		insighter := mocks.NewMockCombinedInsighter(ctrl)

		insighter.EXPECT().
			GetSalesSummary(gomock.Any(), insighting.SalesSummaryRequest{
				DateRange: insighting.DateRange{StartDate: yesterday, EndDate: yesterday},
			}).
			Return(&domain.SalesSummary{StartDate: "2024-05-31", EndDate: "2024-05-31", TotalOrders: 3}, nil)

		insighter.EXPECT().
			AnalyzeFunnel(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req insighting.FunnelRequest) (*domain.FunnelResult, error) {
				assert.Equal(t, steps, req.Steps)
				assert.Equal(t, yesterday, req.StartDate)
				return &domain.FunnelResult{StartDate: "2024-05-31", EndDate: "2024-05-31"}, nil
			})

		report, err := newTestReportService(insighter, steps).Run(context.Background(), "run1")

		require.NoError(t, err)
		assert.Equal(t, "run1", report.RunID)
		assert.Equal(t, "2024-05-31", report.Date)
		assert.Equal(t, 3, report.Summary.TotalOrders)
		assert.NotNil(t, report.Funnel)
	})

	t.Run("Deve omitir funil quando não configurado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		insighter := mocks.NewMockCombinedInsighter(ctrl)

		insighter.EXPECT().GetSalesSummary(gomock.Any(), gomock.Any()).Return(&domain.SalesSummary{}, nil)

		report, err := newTestReportService(insighter, nil).Run(context.Background(), "run2")

		require.NoError(t, err)
		assert.Nil(t, report.Funnel)
	})

	t.Run("Deve propagar erro da fonte", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		insighter := mocks.NewMockCombinedInsighter(ctrl)

		upstream := domain.NewUpstreamError("shopify", 502, "bad gateway")
		insighter.EXPECT().GetSalesSummary(gomock.Any(), gomock.Any()).Return(nil, upstream)

		_, err := newTestReportService(insighter, nil).Run(context.Background(), "run3")

		assert.ErrorIs(t, err, upstream)
	})
}

func TestDailyReportService_TriggerManualRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	insighter := mocks.NewMockCombinedInsighter(ctrl)

	release := make(chan struct{})
	insighter.EXPECT().
		GetSalesSummary(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, insighting.SalesSummaryRequest) (*domain.SalesSummary, error) {
			<-release
			return nil, errors.New("boom")
		})

	service := newTestReportService(insighter, nil)

	runID, err := service.TriggerManualRun()
	require.NoError(t, err)
	assert.Len(t, runID, 12)

	_, err = service.TriggerManualRun()
	assert.ErrorIs(t, err, ErrReportAlreadyRunning)

	close(release)

	assert.Eventually(t, func() bool {
		return service.GetStatus()["running"] == false
	}, time.Second, 10*time.Millisecond)

	status := service.GetStatus()
	assert.Equal(t, runID, status["last_run_id"])
	assert.Contains(t, status["last_error"], "boom")
}
