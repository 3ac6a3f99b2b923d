package shopifyclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
)

func TestSearchQuery(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		predicates map[string]string
		expected   string
		expectErr  bool
	}{
		{
			name:     "Deve montar apenas o intervalo de datas",
			expected: "created_at:>='2024-05-01T00:00:00Z' AND created_at:<'2024-06-01T00:00:00Z'",
		},
		{
			name:       "Predicados em ordem alfabética",
			predicates: map[string]string{"tag": "vip", "financial_status": "paid"},
			expected:   "created_at:>='2024-05-01T00:00:00Z' AND created_at:<'2024-06-01T00:00:00Z' AND financial_status:'paid' AND tag:'vip'",
		},
		{
			name:       "Deve escapar aspas e barras",
			predicates: map[string]string{"tag": `o'neil\x`},
			expected:   `created_at:>='2024-05-01T00:00:00Z' AND created_at:<'2024-06-01T00:00:00Z' AND tag:'o\'neil\\x'`,
		},
		{
			name:       "Chave desconhecida é rejeitada",
			predicates: map[string]string{"email": "a@b.com"},
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := domain.NewQueryFilter(start, end, tt.predicates)
			require.NoError(t, err)

			query, err := SearchQuery(filter)
			if tt.expectErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
		})
	}
}
