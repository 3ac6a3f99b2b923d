package insighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
)

func TestDecodeSalesSummaryRequest(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		validate func(t *testing.T, req SalesSummaryRequest, err error)
	}{
		{
			name: "Deve converter datas e moeda",
			args: map[string]any{
				"start_date": "2024-05-01",
				"end_date":   "2024-05-31",
				"currency":   "usd",
				"filters":    map[string]string{"financial_status": "paid"},
			},
			validate: func(t *testing.T, req SalesSummaryRequest, err error) {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), req.StartDate)
				assert.Equal(t, "USD", req.Currency)
				assert.Equal(t, "paid", req.Filters["financial_status"])
			},
		},
		{
			name: "Data final obrigatória",
			args: map[string]any{"start_date": "2024-05-01"},
			validate: func(t *testing.T, req SalesSummaryRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "end_date is required")
			},
		},
		{
			name: "Data final antes da inicial",
			args: map[string]any{"start_date": "2024-05-10", "end_date": "2024-05-01"},
			validate: func(t *testing.T, req SalesSummaryRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "end_date must not be before start_date")
			},
		},
		{
			name: "Data em formato inválido",
			args: map[string]any{"start_date": "01/05/2024", "end_date": "2024-05-31"},
			validate: func(t *testing.T, req SalesSummaryRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
		{
			name: "Moeda com tamanho errado",
			args: map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "currency": "dollar"},
			validate: func(t *testing.T, req SalesSummaryRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "currency must be a 3-letter currency code")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeSalesSummaryRequest(tt.args)
			tt.validate(t, req, err)
		})
	}
}

func TestDecodeProductSalesRequest(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		validate func(t *testing.T, req ProductSalesRequest, err error)
	}{
		{
			name: "Limite ausente usa o padrão",
			args: map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31"},
			validate: func(t *testing.T, req ProductSalesRequest, err error) {
				require.NoError(t, err)
				assert.Nil(t, req.Limit)
				assert.Equal(t, 25, req.EffectiveLimit(25))
				assert.Equal(t, defaultProductLimit, req.EffectiveLimit(0))
			},
		},
		{
			name: "Limite em texto é convertido",
			args: map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "limit": "3"},
			validate: func(t *testing.T, req ProductSalesRequest, err error) {
				require.NoError(t, err)
				require.NotNil(t, req.Limit)
				assert.Equal(t, 3, req.EffectiveLimit(10))
			},
		},
		{
			name: "Limite zero é inválido",
			args: map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "limit": 0},
			validate: func(t *testing.T, req ProductSalesRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "limit must be greater than 0")
			},
		},
		{
			name: "Limite negativo é inválido",
			args: map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "limit": -1},
			validate: func(t *testing.T, req ProductSalesRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeProductSalesRequest(tt.args)
			tt.validate(t, req, err)
		})
	}
}

func TestDecodeSalesTrendsRequest(t *testing.T) {
	req, err := DecodeSalesTrendsRequest(map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31"})
	require.NoError(t, err)
	assert.Equal(t, domain.IntervalDaily, req.Interval)

	_, err = DecodeSalesTrendsRequest(map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "interval": "yearly"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "interval must be one of")
}

func TestDecodeFunnelRequest(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		validate func(t *testing.T, req FunnelRequest, err error)
	}{
		{
			name: "Deve decodificar etapas com eventos em texto",
			args: map[string]any{
				"start_date": "2024-05-01",
				"end_date":   "2024-05-31",
				"segment_by": "device_type",
				"steps": []map[string]any{
					{"name": "view", "event_names": "page_view,view_item"},
					{"name": "purchase", "event_names": []string{"purchase"}},
				},
			},
			validate: func(t *testing.T, req FunnelRequest, err error) {
				require.NoError(t, err)
				require.Len(t, req.Steps, 2)
				assert.Equal(t, []string{"page_view", "view_item"}, req.Steps[0].EventNames)
				assert.Equal(t, "device_type", req.SegmentBy)
			},
		},
		{
			name: "Uma única etapa é inválida",
			args: map[string]any{
				"start_date": "2024-05-01",
				"end_date":   "2024-05-31",
				"steps":      []map[string]any{{"name": "view", "event_names": "page_view"}},
			},
			validate: func(t *testing.T, req FunnelRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				assert.Contains(t, err.Error(), "steps must have at least 2 items")
			},
		},
		{
			name: "Etapa sem eventos é inválida",
			args: map[string]any{
				"start_date": "2024-05-01",
				"end_date":   "2024-05-31",
				"steps": []map[string]any{
					{"name": "view", "event_names": "page_view"},
					{"name": "purchase"},
				},
			},
			validate: func(t *testing.T, req FunnelRequest, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeFunnelRequest(tt.args)
			tt.validate(t, req, err)
		})
	}
}

func TestDecodeCVRRequest(t *testing.T) {
	req, err := DecodeCVRRequest(map[string]any{
		"start_date":        "2024-05-01",
		"end_date":          "2024-05-31",
		"base_events":       "session_start",
		"conversion_events": "purchase,subscribe",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"session_start"}, req.BaseEvents)
	assert.Equal(t, []string{"purchase", "subscribe"}, req.ConversionEvents)

	_, err = DecodeCVRRequest(map[string]any{"start_date": "2024-05-01", "end_date": "2024-05-31", "base_events": "session_start"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
