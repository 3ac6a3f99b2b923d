package insighting

import (
	"context"

	"github.com/vfg2006/insights-engine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// SalesInsighter define as métricas de vendas sobre a fonte de pedidos
type SalesInsighter interface {
	// GetSalesSummary obtém os totais de vendas do período, separados por moeda
	GetSalesSummary(ctx context.Context, req SalesSummaryRequest) (*domain.SalesSummary, error)

	// GetSalesByProduct obtém o ranking de produtos por valor vendido
	GetSalesByProduct(ctx context.Context, req ProductSalesRequest) (*domain.SalesByProduct, error)

	// GetSalesTrends obtém a série temporal de vendas agrupada por período
	GetSalesTrends(ctx context.Context, req SalesTrendsRequest) (*domain.SalesTrends, error)
}

// FunnelInsighter define as análises de funil sobre a fonte de eventos
type FunnelInsighter interface {
	// AnalyzeFunnel calcula contagens e conversões por etapa, opcionalmente segmentadas
	AnalyzeFunnel(ctx context.Context, req FunnelRequest) (*domain.FunnelResult, error)

	// GetCVR calcula a taxa de conversão entre eventos base e eventos de conversão
	GetCVR(ctx context.Context, req CVRRequest) (*domain.CVRResult, error)
}

// CombinedInsighter é a interface completa usada pela API, pelo agendador e pela CLI
type CombinedInsighter interface {
	SalesInsighter
	FunnelInsighter
}
