package shopify

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	shopifydomain "github.com/vfg2006/insights-engine/infrastructure/integrator/shopify/domain"
	"github.com/vfg2006/insights-engine/infrastructure/integrator/shopify/shopifyclient"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
	"github.com/vfg2006/insights-engine/pkg/log"
)

const SourceName = "shopify"

// OrderSource expõe os pedidos da loja como páginas de RawRecord
type OrderSource struct {
	Client shopifyclient.Client
}

func New(client shopifyclient.Client) fetching.Source {
	return &OrderSource{
		Client: client,
	}
}

func (s *OrderSource) Name() string {
	return SourceName
}

func (s *OrderSource) Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	search, err := shopifyclient.SearchQuery(filter)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.GetOrders(ctx, shopifyclient.OrdersParams{
		First: pageSize,
		After: cursor,
		Query: search,
	})
	if err != nil {
		return nil, err
	}

	page := &domain.Page{
		Records:     make([]domain.RawRecord, 0, len(resp.Nodes)),
		HasNextPage: resp.PageInfo.HasNextPage,
	}
	if resp.PageInfo.EndCursor != nil {
		page.NextCursor = *resp.PageInfo.EndCursor
	}

	for _, order := range resp.Nodes {
		record, err := toRecord(order)
		if err != nil {
			return nil, domain.NewMalformedPayloadError(SourceName, err)
		}
		if order.LineItems.PageInfo.HasNextPage {
			if err := s.appendRemainingLineItems(ctx, order, &record); err != nil {
				return nil, err
			}
		}
		page.Records = append(page.Records, record)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"orders":   len(page.Records),
		"has_next": page.HasNextPage,
	}).Debug("shopify: orders page mapped")

	return page, nil
}

// appendRemainingLineItems segue o cursor de lineItems até o fim para o pedido não perder itens
func (s *OrderSource) appendRemainingLineItems(ctx context.Context, order shopifydomain.Order, record *domain.RawRecord) error {
	currency := record.CategoricalFields[domain.FieldCurrency]
	pageInfo := order.LineItems.PageInfo
	pages := 0

	for pageInfo.HasNextPage {
		if pageInfo.EndCursor == nil || *pageInfo.EndCursor == "" {
			return domain.NewMalformedPayloadError(SourceName, fmt.Errorf("order %s: lineItems com hasNextPage sem endCursor", order.ID))
		}

		conn, err := s.Client.GetOrderLineItems(ctx, shopifyclient.LineItemsParams{
			OrderID: order.ID,
			First:   shopifyclient.MaxPageSize,
			After:   *pageInfo.EndCursor,
		})
		if err != nil {
			return err
		}

		for _, node := range conn.Nodes {
			item, err := toLineItem(node, currency)
			if err != nil {
				return domain.NewMalformedPayloadError(SourceName, fmt.Errorf("order %s: %w", order.ID, err))
			}
			record.LineItems = append(record.LineItems, item)
		}

		if conn.PageInfo.HasNextPage && conn.PageInfo.EndCursor != nil && *conn.PageInfo.EndCursor == *pageInfo.EndCursor {
			return domain.NewMalformedPayloadError(SourceName, fmt.Errorf("order %s: cursor de lineItems repetido", order.ID))
		}
		pageInfo = conn.PageInfo
		pages++
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"order_id": order.ID,
		"pages":    pages,
		"count":    len(record.LineItems),
	}).Debug("shopify: extra line item pages fetched")

	return nil
}

func toRecord(order shopifydomain.Order) (domain.RawRecord, error) {
	currency := order.TotalPriceSet.ShopMoney.CurrencyCode
	if currency == "" {
		currency = order.CurrencyCode
	}
	currency = strings.ToUpper(currency)

	record := domain.RawRecord{
		ID:                order.ID,
		Timestamp:         order.CreatedAt.UTC(),
		NumericFields:     make(map[string]decimal.Decimal, 6),
		CategoricalFields: map[string]string{domain.FieldCurrency: currency},
		LineItems:         make([]domain.LineItem, 0, len(order.LineItems.Nodes)),
	}

	moneyFields := map[string]*shopifydomain.MoneyBag{
		domain.FieldTotalPrice:     &order.TotalPriceSet,
		domain.FieldSubtotalPrice:  order.SubtotalPriceSet,
		domain.FieldTotalDiscounts: order.TotalDiscountsSet,
		domain.FieldTotalShipping:  order.TotalShippingPriceSet,
		domain.FieldTotalTax:       order.TotalTaxSet,
		domain.FieldTotalRefunded:  order.TotalRefundedSet,
	}

	for field, bag := range moneyFields {
		if bag == nil || bag.ShopMoney.Amount == "" {
			continue
		}
		value, err := decimal.NewFromString(bag.ShopMoney.Amount)
		if err != nil {
			return record, fmt.Errorf("order %s: %s: %w", order.ID, field, err)
		}
		record.NumericFields[field] = value
	}

	setCategorical(record.CategoricalFields, domain.FieldFinancialStatus, order.DisplayFinancialStatus)
	setCategorical(record.CategoricalFields, domain.FieldFulfillmentStatus, order.DisplayFulfillmentStatus)
	if order.SourceName != nil {
		setCategorical(record.CategoricalFields, domain.FieldSourceName, *order.SourceName)
	}

	for _, node := range order.LineItems.Nodes {
		item, err := toLineItem(node, currency)
		if err != nil {
			return record, fmt.Errorf("order %s: %w", order.ID, err)
		}
		record.LineItems = append(record.LineItems, item)
	}

	return record, nil
}

func toLineItem(node shopifydomain.LineItem, orderCurrency string) (domain.LineItem, error) {
	amount := decimal.Zero
	if raw := node.OriginalTotalSet.ShopMoney.Amount; raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("line item %s: %w", node.ID, err)
		}
		amount = parsed
	}

	currency := strings.ToUpper(node.OriginalTotalSet.ShopMoney.CurrencyCode)
	if currency == "" {
		currency = orderCurrency
	}

	item := domain.LineItem{
		ProductTitle: node.Title,
		Quantity:     node.Quantity,
		Amount:       amount,
		Currency:     currency,
	}

	// produto removido da loja fica sem id e cai no balde unknown
	if node.Product != nil {
		item.ProductID = node.Product.ID
		if node.Product.Title != "" {
			item.ProductTitle = node.Product.Title
		}
	}

	return item, nil
}

// setCategorical normaliza os enums da API (PARTIALLY_PAID -> partially_paid)
func setCategorical(fields map[string]string, key, value string) {
	if value == "" {
		return
	}
	fields[key] = strings.ToLower(value)
}
