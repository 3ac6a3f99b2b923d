package insighting

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/aggregating"
)

const (
	fieldQuantity = "quantity"
	fieldAmount   = "amount"

	fieldProductID = "product_id"
	fieldPeriod    = "period"

	keySeparator = "|"
)

var salesFields = []string{
	domain.FieldTotalPrice,
	domain.FieldTotalDiscounts,
	domain.FieldTotalShipping,
	domain.FieldTotalTax,
}

// summarize monta o resumo por moeda. Os totais de topo só existem para uma única moeda.
func summarize(records []domain.RawRecord, currencyFilter string) *domain.SalesSummary {
	breakdown := aggregating.CurrencyBreakdown(records, salesFields...)

	summary := &domain.SalesSummary{
		TotalOrders:     len(records),
		SalesByCurrency: make(map[string]*domain.SalesTotals, len(breakdown)),
	}

	for currency, bucket := range breakdown {
		summary.SalesByCurrency[currency] = totals(bucket)
	}

	currency, single := aggregating.SingleCurrency(breakdown)
	switch {
	case currencyFilter != "":
		currency, single = currencyFilter, true
	case len(breakdown) == 0:
		single = true
	}

	if !single {
		summary.MixedCurrency = true
		return summary
	}

	top := summary.SalesByCurrency[currency]
	if top == nil {
		top = totals(domain.NewAggregateBucket(currency))
	}

	summary.Currency = currency
	summary.TotalSales = &top.TotalSales
	summary.AverageOrderValue = &top.AverageOrderValue
	summary.TotalDiscounts = &top.TotalDiscounts
	summary.TotalShipping = &top.TotalShipping
	summary.TotalTax = &top.TotalTax

	return summary
}

func totals(bucket *domain.AggregateBucket) *domain.SalesTotals {
	return &domain.SalesTotals{
		TotalOrders:       bucket.Count,
		TotalSales:        domain.NewAmount(bucket.Sum(domain.FieldTotalPrice)),
		AverageOrderValue: domain.NewAmount(aggregating.BucketAverage(bucket, domain.FieldTotalPrice)),
		TotalDiscounts:    domain.NewAmount(bucket.Sum(domain.FieldTotalDiscounts)),
		TotalShipping:     domain.NewAmount(bucket.Sum(domain.FieldTotalShipping)),
		TotalTax:          domain.NewAmount(bucket.Sum(domain.FieldTotalTax)),
	}
}

// productTitle guarda o título do pedido mais recente para cada produto
type productTitle struct {
	title     string
	timestamp time.Time
	orderID   string
}

// rankProducts agrupa os itens por (produto, moeda) e ranqueia dentro de cada moeda, mantendo
// até limit produtos por moeda. Cada pedido conta uma vez por produto. Devolve também quantas
// moedas apareceram.
func rankProducts(records []domain.RawRecord, limit int) ([]*domain.ProductSales, int) {
	perOrder := make([]domain.RawRecord, 0, len(records))
	titles := make(map[string]productTitle)

	for _, order := range records {
		merged := make(map[string]*domain.RawRecord)
		keys := make([]string, 0, len(order.LineItems))

		for _, item := range order.LineItems {
			key := productKey(item)

			if current, ok := titles[key]; item.ProductTitle != "" && (!ok || newer(order, current)) {
				titles[key] = productTitle{title: item.ProductTitle, timestamp: order.Timestamp, orderID: order.ID}
			}

			record, exists := merged[key]
			if !exists {
				record = &domain.RawRecord{
					ID:                order.ID,
					Timestamp:         order.Timestamp,
					NumericFields:     map[string]decimal.Decimal{},
					CategoricalFields: map[string]string{fieldProductID: key},
				}
				merged[key] = record
				keys = append(keys, key)
			}

			record.NumericFields[fieldAmount] = record.NumericFields[fieldAmount].Add(item.Amount)
			record.NumericFields[fieldQuantity] = record.NumericFields[fieldQuantity].Add(decimal.NewFromInt(int64(item.Quantity)))
		}

		for _, key := range keys {
			perOrder = append(perOrder, *merged[key])
		}
	}

	buckets := aggregating.GroupBy(
		perOrder,
		aggregating.ByCategorical(fieldProductID),
		aggregating.NumericFields(fieldAmount, fieldQuantity),
	)

	products := make([]*domain.ProductSales, 0, len(buckets))
	for key, bucket := range buckets {
		productID, currency := splitKey(key)
		products = append(products, &domain.ProductSales{
			ProductID:         productID,
			ProductTitle:      titles[key].title,
			Currency:          currency,
			TotalQuantity:     int(bucket.Sum(fieldQuantity).IntPart()),
			TotalSales:        domain.NewAmount(bucket.Sum(fieldAmount)),
			OrderCount:        bucket.Count,
			AverageOrderValue: domain.NewAmount(aggregating.BucketAverage(bucket, fieldAmount)),
		})
	}

	// valores de moedas diferentes não são comparáveis
	sort.Slice(products, func(i, j int) bool {
		if products[i].Currency != products[j].Currency {
			return products[i].Currency < products[j].Currency
		}
		if cmp := products[i].TotalSales.Cmp(products[j].TotalSales.Decimal); cmp != 0 {
			return cmp > 0
		}
		return products[i].ProductID < products[j].ProductID
	})

	ranked := make([]*domain.ProductSales, 0, len(products))
	currencies, rank := 0, 0
	for i, product := range products {
		if i == 0 || product.Currency != products[i-1].Currency {
			currencies++
			rank = 0
		}
		rank++
		if rank <= limit {
			ranked = append(ranked, product)
		}
	}

	return ranked, currencies
}

// buildTrends agrupa os pedidos por (período, moeda) em ordem cronológica
func buildTrends(records []domain.RawRecord, interval domain.Interval) ([]*domain.TrendPoint, error) {
	keyed := make([]domain.RawRecord, 0, len(records))
	for _, record := range records {
		period, err := aggregating.PeriodKey(record.Timestamp, interval)
		if err != nil {
			return nil, err
		}

		currency, ok := record.Categorical(domain.FieldCurrency)
		if !ok {
			currency = domain.UnknownKey
		}

		keyed = append(keyed, domain.RawRecord{
			ID:                record.ID,
			Timestamp:         record.Timestamp,
			NumericFields:     record.NumericFields,
			CategoricalFields: map[string]string{fieldPeriod: period + keySeparator + currency},
		})
	}

	buckets := aggregating.GroupBy(keyed, aggregating.ByCategorical(fieldPeriod), aggregating.NumericFields(domain.FieldTotalPrice))

	trends := make([]*domain.TrendPoint, 0, len(buckets))
	for _, key := range aggregating.SortedKeys(buckets) {
		bucket := buckets[key]
		period, currency := splitKey(key)

		trends = append(trends, &domain.TrendPoint{
			Period:            period,
			Currency:          currency,
			TotalSales:        domain.NewAmount(bucket.Sum(domain.FieldTotalPrice)),
			OrderCount:        bucket.Count,
			AverageOrderValue: domain.NewAmount(aggregating.BucketAverage(bucket, domain.FieldTotalPrice)),
		})
	}

	return trends, nil
}

func productKey(item domain.LineItem) string {
	productID := item.ProductID
	if productID == "" {
		productID = domain.UnknownKey
	}

	currency := item.Currency
	if currency == "" {
		currency = domain.UnknownKey
	}

	return productID + keySeparator + currency
}

// splitKey separa no último separador, já que ids de produto podem conter qualquer caractere
func splitKey(key string) (string, string) {
	idx := strings.LastIndex(key, keySeparator)
	if idx < 0 {
		return key, ""
	}
	return key[:idx], key[idx+len(keySeparator):]
}

func newer(order domain.RawRecord, current productTitle) bool {
	if order.Timestamp.Equal(current.timestamp) {
		return order.ID > current.orderID
	}
	return order.Timestamp.After(current.timestamp)
}
