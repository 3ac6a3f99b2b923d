package funneling

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// memorySource é uma fonte de eventos em memória paginada por offset
type memorySource struct {
	events []domain.RawRecord
	failOn string
	dims   []string
}

func (s *memorySource) Name() string { return "events" }

func (s *memorySource) Dimensions() []string { return s.dims }

func (s *memorySource) Query(_ context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	if slices.Contains(filter.EventNames, s.failOn) {
		return nil, domain.NewUpstreamError(s.Name(), http.StatusInternalServerError, "boom")
	}

	matched := make([]domain.RawRecord, 0)
	for _, event := range s.events {
		name, _ := event.Categorical(domain.FieldEventName)
		if slices.Contains(filter.EventNames, name) {
			matched = append(matched, event)
		}
	}

	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	end := min(start+pageSize, len(matched))

	page := &domain.Page{Records: matched[start:end]}
	if end < len(matched) {
		page.HasNextPage = true
		page.NextCursor = strconv.Itoa(end)
	}

	return page, nil
}

func events(name string, n int, device string) []domain.RawRecord {
	out := make([]domain.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		categorical := map[string]string{domain.FieldEventName: name}
		if device != "" {
			categorical["device_type"] = device
		}
		out = append(out, domain.RawRecord{
			ID:                fmt.Sprintf("%s-%s-%d", name, device, i),
			Timestamp:         time.Date(2024, 5, 16, 12, 0, 0, 0, time.UTC),
			CategoricalFields: categorical,
		})
	}
	return out
}

func concat(groups ...[]domain.RawRecord) []domain.RawRecord {
	return slices.Concat(groups...)
}

var testFilter = domain.QueryFilter{
	StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	EndDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
}

func newAnalyzer(src fetching.Source, maxPages int) *Analyzer {
	fetcher := fetching.NewFetcherWithOptions(fetching.Options{PageSize: 10, MaxPages: maxPages})
	return NewAnalyzer(fetcher, src, 3)
}

func twoSteps() []domain.FunnelStep {
	return []domain.FunnelStep{
		{Name: "A", EventNames: []string{"view_item"}},
		{Name: "B", EventNames: []string{"purchase"}},
	}
}

func TestAnalyzer_AnalyzeFunnel(t *testing.T) {
	tests := []struct {
		name      string
		source    *memorySource
		steps     []domain.FunnelStep
		segmentBy string
		maxPages  int
		validate  func(t *testing.T, result *domain.FunnelResult, err error)
	}{
		{
			name:   "Conversão de 100 para 25 é 25%",
			source: &memorySource{events: concat(events("view_item", 100, ""), events("purchase", 25, ""))},
			steps:  twoSteps(),
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, []domain.StepCount{{Name: "A", Count: 100}, {Name: "B", Count: 25}}, result.Steps)
				require.Len(t, result.Conversions, 1)
				assert.Equal(t, "A", result.Conversions[0].From)
				assert.Equal(t, "B", result.Conversions[0].To)
				assert.Equal(t, "25.00", result.Conversions[0].Rate.String())
				assert.Equal(t, "25.00", result.OverallConversion.String())
				assert.False(t, result.Truncated)
				assert.Nil(t, result.Segments)
			},
		},
		{
			name:   "Etapa anterior vazia resulta em conversão zero",
			source: &memorySource{events: events("purchase", 5, "")},
			steps:  twoSteps(),
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, 0, result.Count("A"))
				assert.Equal(t, 5, result.Count("B"))
				assert.Equal(t, "0.00", result.Conversions[0].Rate.String())
			},
		},
		{
			name: "Segmentos são a união de todas as etapas com zero nas ausências",
			source: &memorySource{
				events: concat(events("view_item", 10, "mobile"), events("purchase", 5, "desktop")),
				dims:   []string{"device_type"},
			},
			steps:     twoSteps(),
			segmentBy: "device_type",
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.NoError(t, err)
				require.Len(t, result.Segments, 2)

				mobile := result.Segments["mobile"]
				require.NotNil(t, mobile)
				assert.Equal(t, 10, mobile.Count("A"))
				assert.Equal(t, 0, mobile.Count("B"))
				assert.Len(t, mobile.Steps, 2)
				assert.Equal(t, "0.00", mobile.Conversions[0].Rate.String())

				desktop := result.Segments["desktop"]
				require.NotNil(t, desktop)
				assert.Equal(t, 0, desktop.Count("A"))
				assert.Equal(t, 5, desktop.Count("B"))

				// funil geral sempre presente
				assert.Equal(t, 10, result.Count("A"))
				assert.Equal(t, 5, result.Count("B"))
				assert.Equal(t, "50.00", result.OverallConversion.String())
			},
		},
		{
			name: "Evento sem o campo de segmento cai em unknown",
			source: &memorySource{
				events: concat(events("view_item", 4, "mobile"), events("view_item", 2, ""), events("purchase", 1, "")),
				dims:   []string{"device_type"},
			},
			steps:     twoSteps(),
			segmentBy: "device_type",
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, result.Segments[domain.UnknownKey].Count("A"))
				assert.Equal(t, 1, result.Segments[domain.UnknownKey].Count("B"))
				assert.Equal(t, 0, result.Segments["mobile"].Count("B"))
			},
		},
		{
			name: "Falha em uma etapa falha o funil inteiro",
			source: &memorySource{
				events: events("view_item", 10, ""),
				failOn: "purchase",
			},
			steps: twoSteps(),
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.ErrorIs(t, err, domain.ErrUpstream)
			},
		},
		{
			name:   "Funil com uma etapa é inválido",
			source: &memorySource{},
			steps:  twoSteps()[:1],
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
		{
			name:      "Dimensão de segmento fora da lista é inválida",
			source:    &memorySource{dims: []string{"device_type"}},
			steps:     twoSteps(),
			segmentBy: "email",
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				var argErr *domain.InvalidArgumentError
				require.ErrorAs(t, err, &argErr)
				assert.Equal(t, "segment_by", argErr.Field)
			},
		},
		{
			name:     "Limite de páginas marca o funil como truncado",
			source:   &memorySource{events: concat(events("view_item", 25, ""), events("purchase", 3, ""))},
			steps:    twoSteps(),
			maxPages: 1,
			validate: func(t *testing.T, result *domain.FunnelResult, err error) {
				require.NoError(t, err)
				assert.True(t, result.Truncated)
				assert.Equal(t, 10, result.Count("A"))
				assert.Equal(t, 3, result.Count("B"))
				require.Len(t, result.Warnings, 1)
				assert.Equal(t, "events", result.Warnings[0].Source)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxPages := tt.maxPages
			if maxPages == 0 {
				maxPages = 50
			}

			result, err := newAnalyzer(tt.source, maxPages).AnalyzeFunnel(context.Background(), tt.steps, testFilter, tt.segmentBy)
			tt.validate(t, result, err)
		})
	}
}

func TestAnalyzer_AnalyzeFunnel_Deterministic(t *testing.T) {
	source := &memorySource{
		events: concat(
			events("view_item", 37, "mobile"),
			events("view_item", 21, "desktop"),
			events("add_to_cart", 12, "mobile"),
			events("add_to_cart", 9, "tablet"),
			events("purchase", 4, "desktop"),
		),
		dims: []string{"device_type"},
	}
	steps := []domain.FunnelStep{
		{Name: "view", EventNames: []string{"view_item"}},
		{Name: "cart", EventNames: []string{"add_to_cart"}},
		{Name: "purchase", EventNames: []string{"purchase"}},
	}

	analyzer := newAnalyzer(source, 50)

	first, err := analyzer.AnalyzeFunnel(context.Background(), steps, testFilter, "device_type")
	require.NoError(t, err)
	expected, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := analyzer.AnalyzeFunnel(context.Background(), steps, testFilter, "device_type")
		require.NoError(t, err)

		got, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, string(expected), string(got))
	}

	assert.Equal(t, []string{"desktop", "mobile", "tablet"}, sortedSegments(first))
	assert.Equal(t, 0, first.Segments["tablet"].Count("view"))
	assert.Equal(t, 9, first.Segments["tablet"].Count("cart"))
}

func TestAnalyzer_CVR(t *testing.T) {
	source := &memorySource{
		events: concat(
			events("session_start", 150, "mobile"),
			events("session_start", 50, "desktop"),
			events("purchase", 30, "mobile"),
			events("purchase", 20, "desktop"),
		),
		dims: []string{"device_type"},
	}

	result, err := newAnalyzer(source, 50).CVR(context.Background(), []string{"session_start"}, []string{"purchase"}, testFilter, "device_type")
	require.NoError(t, err)

	assert.Equal(t, 200, result.BaseCount)
	assert.Equal(t, 50, result.ConversionCount)
	assert.Equal(t, "25.00", result.CVR.String())
	assert.Equal(t, "20.00", result.Segments["mobile"].CVR.String())
	assert.Equal(t, "40.00", result.Segments["desktop"].CVR.String())
	assert.Equal(t, "2024-05-01", result.StartDate)
}

func TestAnalyzer_CVR_EmptyBase(t *testing.T) {
	result, err := newAnalyzer(&memorySource{}, 50).CVR(context.Background(), []string{"session_start"}, []string{"purchase"}, testFilter, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.BaseCount)
	assert.Equal(t, "0.00", result.CVR.String())
}

func sortedSegments(result *domain.FunnelResult) []string {
	keys := make([]string, 0, len(result.Segments))
	for key := range result.Segments {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
