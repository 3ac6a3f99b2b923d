package insighting

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
	"github.com/vfg2006/insights-engine/internal/usecases/funneling"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/metrics"
)

// Service implementa CombinedInsighter sobre uma fonte de pedidos e uma fonte de eventos
type Service struct {
	cfg          *config.Config
	fetcher      *fetching.Fetcher
	salesSource  fetching.Source
	eventsSource fetching.Source
	analyzer     *funneling.Analyzer
}

// NewService cria uma nova instância do serviço de insights
func NewService(
	cfg *config.Config,
	fetcher *fetching.Fetcher,
	salesSource fetching.Source,
	eventsSource fetching.Source,
) CombinedInsighter {
	return &Service{
		cfg:          cfg,
		fetcher:      fetcher,
		salesSource:  salesSource,
		eventsSource: eventsSource,
		analyzer:     funneling.NewAnalyzer(fetcher, eventsSource, cfg.Engine.MaxConcurrency),
	}
}

// GetSalesSummary obtém os totais do período. Moedas diferentes nunca são somadas.
func (s *Service) GetSalesSummary(ctx context.Context, req SalesSummaryRequest) (result *domain.SalesSummary, err error) {
	defer observe("sales_summary", time.Now(), &err)

	filter, err := req.Filter(req.Filters)
	if err != nil {
		return nil, err
	}

	fetched, err := s.fetchOrders(ctx, filter, req.Currency)
	if err != nil {
		return nil, err
	}

	summary := summarize(fetched.Records, req.Currency)
	summary.StartDate = filter.StartDate.Format(time.DateOnly)
	summary.EndDate = filter.EndDate.Format(time.DateOnly)
	attachWarning(&summary.Truncated, &summary.Warnings, fetched)

	log.ForContext(ctx).WithFields(log.Fields{
		"total_orders":   summary.TotalOrders,
		"currencies":     len(summary.SalesByCurrency),
		"mixed_currency": summary.MixedCurrency,
		"truncated":      summary.Truncated,
	}).Info("insights: sales summary computed")

	return summary, nil
}

// GetSalesByProduct obtém os produtos ordenados por valor vendido
func (s *Service) GetSalesByProduct(ctx context.Context, req ProductSalesRequest) (result *domain.SalesByProduct, err error) {
	defer observe("sales_by_product", time.Now(), &err)

	limit := req.EffectiveLimit(s.cfg.Engine.DefaultLimit)
	if limit <= 0 {
		return nil, domain.NewInvalidArgumentError("limit", "limit must be greater than 0")
	}

	filter, err := req.Filter(req.Filters)
	if err != nil {
		return nil, err
	}

	fetched, err := s.fetchOrders(ctx, filter, req.Currency)
	if err != nil {
		return nil, err
	}

	products, currencies := rankProducts(fetched.Records, limit)

	response := &domain.SalesByProduct{
		StartDate:     filter.StartDate.Format(time.DateOnly),
		EndDate:       filter.EndDate.Format(time.DateOnly),
		Limit:         limit,
		MixedCurrency: currencies > 1,
		Products:      products,
	}
	attachWarning(&response.Truncated, &response.Warnings, fetched)

	log.ForContext(ctx).WithFields(log.Fields{
		"products":       len(products),
		"limit":          limit,
		"currencies":     currencies,
		"mixed_currency": response.MixedCurrency,
		"truncated":      response.Truncated,
	}).Info("insights: sales by product computed")

	return response, nil
}

// GetSalesTrends obtém a série de vendas por período e moeda, em ordem cronológica
func (s *Service) GetSalesTrends(ctx context.Context, req SalesTrendsRequest) (result *domain.SalesTrends, err error) {
	defer observe("sales_trends", time.Now(), &err)

	if !req.Interval.IsValid() {
		return nil, domain.NewInvalidArgumentError("interval", "interval must be daily, weekly or monthly")
	}

	filter, err := req.Filter(req.Filters)
	if err != nil {
		return nil, err
	}

	fetched, err := s.fetchOrders(ctx, filter, req.Currency)
	if err != nil {
		return nil, err
	}

	trends, err := buildTrends(fetched.Records, req.Interval)
	if err != nil {
		return nil, err
	}

	response := &domain.SalesTrends{
		StartDate: filter.StartDate.Format(time.DateOnly),
		EndDate:   filter.EndDate.Format(time.DateOnly),
		Interval:  req.Interval,
		Trends:    trends,
	}
	attachWarning(&response.Truncated, &response.Warnings, fetched)

	log.ForContext(ctx).WithFields(log.Fields{
		"interval":  req.Interval,
		"periods":   len(trends),
		"truncated": response.Truncated,
	}).Info("insights: sales trends computed")

	return response, nil
}

// AnalyzeFunnel calcula o funil sobre a fonte de eventos
func (s *Service) AnalyzeFunnel(ctx context.Context, req FunnelRequest) (result *domain.FunnelResult, err error) {
	defer observe("funnel", time.Now(), &err)

	filter, err := req.Filter(req.Filters)
	if err != nil {
		return nil, err
	}

	return s.analyzer.AnalyzeFunnel(ctx, req.Steps, filter, req.SegmentBy)
}

// GetCVR calcula a taxa de conversão sobre a fonte de eventos
func (s *Service) GetCVR(ctx context.Context, req CVRRequest) (result *domain.CVRResult, err error) {
	defer observe("cvr", time.Now(), &err)

	filter, err := req.Filter(req.Filters)
	if err != nil {
		return nil, err
	}

	return s.analyzer.CVR(ctx, req.BaseEvents, req.ConversionEvents, filter, req.SegmentBy)
}

// fetchOrders busca todos os pedidos e aplica o filtro de moeda localmente,
// já que nem toda fonte consegue filtrar por moeda
func (s *Service) fetchOrders(ctx context.Context, filter domain.QueryFilter, currency string) (*domain.FetchResult, error) {
	fetched, err := s.fetcher.FetchAll(ctx, s.salesSource, filter)
	if err != nil {
		return nil, err
	}

	normalizeCurrencies(fetched.Records)

	if currency != "" {
		fetched.Records = lo.Filter(fetched.Records, func(record domain.RawRecord, _ int) bool {
			value, _ := record.Categorical(domain.FieldCurrency)
			return strings.EqualFold(value, currency)
		})
	}

	return fetched, nil
}

// normalizeCurrencies põe os códigos de moeda em maiúsculas para usd e USD caírem no mesmo balde
func normalizeCurrencies(records []domain.RawRecord) {
	for i := range records {
		if value, ok := records[i].CategoricalFields[domain.FieldCurrency]; ok {
			records[i].CategoricalFields[domain.FieldCurrency] = strings.ToUpper(strings.TrimSpace(value))
		}
		for j := range records[i].LineItems {
			records[i].LineItems[j].Currency = strings.ToUpper(strings.TrimSpace(records[i].LineItems[j].Currency))
		}
	}
}

func attachWarning(truncated *bool, warnings *[]*domain.PartialDataWarning, fetched *domain.FetchResult) {
	*truncated = fetched.Truncated
	if fetched.Warning != nil {
		*warnings = append(*warnings, fetched.Warning)
	}
}

func observe(operation string, started time.Time, err *error) {
	status := "success"
	if err != nil && *err != nil {
		status = "failure"
	}
	metrics.OperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
