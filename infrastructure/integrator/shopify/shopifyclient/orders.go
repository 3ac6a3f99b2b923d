package shopifyclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	shopifydomain "github.com/vfg2006/insights-engine/infrastructure/integrator/shopify/domain"
	"github.com/vfg2006/insights-engine/internal/domain"
)

// MaxPageSize é o maior valor aceito em first pela Admin API
const MaxPageSize = 250

const maxErrorBody = 512

const ordersQuery = `query Orders($first: Int!, $after: String, $query: String) {
  orders(first: $first, after: $after, query: $query, sortKey: CREATED_AT) {
    nodes {
      id
      name
      createdAt
      currencyCode
      displayFinancialStatus
      displayFulfillmentStatus
      sourceName
      totalPriceSet { shopMoney { amount currencyCode } }
      subtotalPriceSet { shopMoney { amount currencyCode } }
      totalDiscountsSet { shopMoney { amount currencyCode } }
      totalShippingPriceSet { shopMoney { amount currencyCode } }
      totalTaxSet { shopMoney { amount currencyCode } }
      totalRefundedSet { shopMoney { amount currencyCode } }
      lineItems(first: 100) {
        nodes {
          id
          title
          quantity
          product { id title }
          originalTotalSet { shopMoney { amount currencyCode } }
        }
        pageInfo { hasNextPage endCursor }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const lineItemsQuery = `query OrderLineItems($id: ID!, $first: Int!, $after: String) {
  order(id: $id) {
    lineItems(first: $first, after: $after) {
      nodes {
        id
        title
        quantity
        product { id title }
        originalTotalSet { shopMoney { amount currencyCode } }
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

type LineItemsParams struct {
	OrderID string
	First   int
	After   string
}

type OrdersParams struct {
	First int
	After string
	Query string
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   jsoniter.RawMessage          `json:"data"`
	Errors []shopifydomain.GraphQLError `json:"errors"`
}

func (c *ShopifyClient) GetOrders(ctx context.Context, params OrdersParams) (*shopifydomain.OrderConnection, error) {
	variables := map[string]any{
		"first": min(max(params.First, 1), MaxPageSize),
		"query": params.Query,
	}
	if params.After != "" {
		variables["after"] = params.After
	}

	var data struct {
		Orders *shopifydomain.OrderConnection `json:"orders"`
	}
	if err := c.execute(ctx, ordersQuery, variables, &data); err != nil {
		return nil, err
	}

	if data.Orders == nil {
		return nil, domain.NewMalformedPayloadError(sourceName, errors.New("resposta sem data.orders"))
	}

	return data.Orders, nil
}

// GetOrderLineItems busca as páginas seguintes de itens de um pedido
func (c *ShopifyClient) GetOrderLineItems(ctx context.Context, params LineItemsParams) (*shopifydomain.LineItemConnection, error) {
	variables := map[string]any{
		"id":    params.OrderID,
		"first": min(max(params.First, 1), MaxPageSize),
	}
	if params.After != "" {
		variables["after"] = params.After
	}

	var data struct {
		Order *struct {
			LineItems *shopifydomain.LineItemConnection `json:"lineItems"`
		} `json:"order"`
	}
	if err := c.execute(ctx, lineItemsQuery, variables, &data); err != nil {
		return nil, err
	}

	if data.Order == nil || data.Order.LineItems == nil {
		return nil, domain.NewMalformedPayloadError(sourceName, fmt.Errorf("resposta sem lineItems do pedido %s", params.OrderID))
	}

	return data.Order.LineItems, nil
}

// execute envia a consulta GraphQL e decodifica data em out
func (c *ShopifyClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "erro ao serializar a consulta")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.UpstreamError{
			Source:    sourceName,
			Status:    http.StatusServiceUnavailable,
			Temporary: true,
			Err:       errors.Wrap(err, "erro ao executar a requisição"),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewMalformedPayloadError(sourceName, errors.Wrap(err, "erro ao ler a resposta"))
	}

	if resp.StatusCode != http.StatusOK {
		return domain.NewUpstreamError(sourceName, resp.StatusCode, truncate(string(body)))
	}

	var response graphQLResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.NewMalformedPayloadError(sourceName, errors.Wrap(err, "erro ao decodificar a resposta"))
	}

	if len(response.Errors) > 0 {
		return graphQLFailure(response.Errors)
	}

	if len(response.Data) == 0 || string(response.Data) == "null" {
		return domain.NewMalformedPayloadError(sourceName, errors.New("resposta sem data"))
	}

	if err := json.Unmarshal(response.Data, out); err != nil {
		return domain.NewMalformedPayloadError(sourceName, errors.Wrap(err, "erro ao decodificar data"))
	}

	return nil
}

func (c *ShopifyClient) endpoint() (string, error) {
	base, err := url.Parse(c.config.StoreURL)
	if err != nil || base.Host == "" {
		return "", domain.NewConfigurationError("SHOPIFY_STORE_URL", fmt.Sprintf("invalid store url %q", c.config.StoreURL))
	}

	base.Path = path.Join(base.Path, "admin", "api", c.config.APIVersion, "graphql.json")
	return base.String(), nil
}

// graphQLFailure converte o array errors. THROTTLED é transitório, o resto é terminal.
func graphQLFailure(graphQLErrors []shopifydomain.GraphQLError) *domain.UpstreamError {
	messages := make([]string, 0, len(graphQLErrors))
	throttled := false

	for _, graphQLErr := range graphQLErrors {
		messages = append(messages, graphQLErr.Message)
		throttled = throttled || graphQLErr.IsThrottled()
	}

	if throttled {
		return domain.NewUpstreamError(sourceName, http.StatusTooManyRequests, strings.Join(messages, "; "))
	}

	return &domain.UpstreamError{
		Source: sourceName,
		Status: http.StatusBadGateway,
		Body:   strings.Join(messages, "; "),
	}
}

func truncate(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody] + "..."
}
