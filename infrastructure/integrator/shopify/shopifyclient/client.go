package shopifyclient

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	shopifydomain "github.com/vfg2006/insights-engine/infrastructure/integrator/shopify/domain"
	"github.com/vfg2006/insights-engine/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const sourceName = "shopify"

type Client interface {
	GetOrders(ctx context.Context, params OrdersParams) (*shopifydomain.OrderConnection, error)
	GetOrderLineItems(ctx context.Context, params LineItemsParams) (*shopifydomain.LineItemConnection, error)
}

type ShopifyClient struct {
	httpClient *http.Client
	config     config.Shopify
}

// NewClient cria o cliente da Admin API GraphQL
func NewClient(cfg *config.Config) Client {
	return NewClientWithHTTP(cfg, &http.Client{
		Timeout: 45 * time.Second,
	})
}

func NewClientWithHTTP(cfg *config.Config, httpClient *http.Client) Client {
	return &ShopifyClient{
		httpClient: httpClient,
		config:     cfg.Shopify,
	}
}
