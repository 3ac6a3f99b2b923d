package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/insights-engine/infrastructure/database/warehouse"
	"github.com/vfg2006/insights-engine/internal/domain"
	"github.com/vfg2006/insights-engine/internal/usecases/fetching"
)

const (
	ordersTable    = "orders o"
	lineItemsTable = "order_line_items li"

	WarehouseOrdersSource = "warehouse_orders"
)

// currencyColumn compara sem diferenciar caixa, o warehouse guarda usd e USD
const currencyColumn = "UPPER(o.currency)"

var orderPredicateColumns = map[string]string{
	domain.FieldCurrency:          currencyColumn,
	domain.FieldFinancialStatus:   "o.financial_status",
	domain.FieldFulfillmentStatus: "o.fulfillment_status",
	domain.FieldSourceName:        "o.source_name",
}

type orderRow struct {
	ID                int64           `db:"id"`
	CreatedAt         time.Time       `db:"created_at"`
	Currency          string          `db:"currency"`
	TotalPrice        decimal.Decimal `db:"total_price"`
	SubtotalPrice     decimal.Decimal `db:"subtotal_price"`
	TotalDiscounts    decimal.Decimal `db:"total_discounts"`
	TotalShipping     decimal.Decimal `db:"total_shipping"`
	TotalTax          decimal.Decimal `db:"total_tax"`
	TotalRefunded     decimal.Decimal `db:"total_refunded"`
	FinancialStatus   sql.NullString  `db:"financial_status"`
	FulfillmentStatus sql.NullString  `db:"fulfillment_status"`
	SourceName        sql.NullString  `db:"source_name"`
}

type lineItemRow struct {
	OrderID      int64           `db:"order_id"`
	ProductID    sql.NullString  `db:"product_id"`
	ProductTitle sql.NullString  `db:"product_title"`
	Quantity     int             `db:"quantity"`
	Amount       decimal.Decimal `db:"amount"`
	Currency     string          `db:"currency"`
}

type orderRepository struct {
	conn        warehouse.Queryer
	placeholder squirrel.PlaceholderFormat
}

// NewOrderRepository expõe a tabela orders como fonte de pedidos, paginada por id
func NewOrderRepository(conn warehouse.Conn) fetching.Source {
	return newOrderRepository(conn, conn.Placeholder())
}

func newOrderRepository(conn warehouse.Queryer, placeholder squirrel.PlaceholderFormat) *orderRepository {
	return &orderRepository{
		conn:        conn,
		placeholder: placeholder,
	}
}

func (r *orderRepository) Name() string {
	return WarehouseOrdersSource
}

func (r *orderRepository) Query(ctx context.Context, filter domain.QueryFilter, pageSize int, cursor string) (*domain.Page, error) {
	query, args, err := r.ordersQuery(filter, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	// uma linha extra indica se existe próxima página
	rows := make([]orderRow, 0, pageSize+1)
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryError(ctx, WarehouseOrdersSource, err)
	}

	page := &domain.Page{Records: make([]domain.RawRecord, 0, len(rows))}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		page.HasNextPage = true
		page.NextCursor = strconv.FormatInt(rows[len(rows)-1].ID, 10)
	}

	items, err := r.lineItems(ctx, rows)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		page.Records = append(page.Records, row.toRecord(items[row.ID]))
	}

	return page, nil
}

func (r *orderRepository) ordersQuery(filter domain.QueryFilter, pageSize int, cursor string) (string, []interface{}, error) {
	eq, err := predicateColumns(filter, orderPredicateColumns, WarehouseOrdersSource)
	if err != nil {
		return "", nil, err
	}
	if currency, ok := eq[currencyColumn].(string); ok {
		eq[currencyColumn] = normalizeCurrency(currency)
	}

	builder := squirrel.
		Select("o.id, o.created_at, o.currency, o.total_price, o.subtotal_price, o.total_discounts, o.total_shipping, o.total_tax, o.total_refunded, o.financial_status, o.fulfillment_status, o.source_name").
		From(ordersTable).
		Where(squirrel.GtOrEq{"o.created_at": filter.StartDate}).
		Where(squirrel.Lt{"o.created_at": filter.Until()}).
		OrderBy("o.id ASC").
		Limit(uint64(pageSize + 1)).
		PlaceholderFormat(r.placeholder)

	if len(eq) > 0 {
		builder = builder.Where(squirrel.Eq(eq))
	}

	if cursor != "" {
		lastID, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return "", nil, domain.NewInvalidArgumentError("cursor", "malformed cursor")
		}
		builder = builder.Where(squirrel.Gt{"o.id": lastID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

// lineItems carrega os itens da página inteira em uma única consulta
func (r *orderRepository) lineItems(ctx context.Context, orders []orderRow) (map[int64][]domain.LineItem, error) {
	result := make(map[int64][]domain.LineItem, len(orders))
	if len(orders) == 0 {
		return result, nil
	}

	query, args, err := r.lineItemsQuery(orders)
	if err != nil {
		return nil, err
	}

	rows := make([]lineItemRow, 0)
	if err := r.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, queryError(ctx, WarehouseOrdersSource, err)
	}

	for _, row := range rows {
		result[row.OrderID] = append(result[row.OrderID], domain.LineItem{
			ProductID:    row.ProductID.String,
			ProductTitle: row.ProductTitle.String,
			Quantity:     row.Quantity,
			Amount:       row.Amount,
			Currency:     normalizeCurrency(row.Currency),
		})
	}

	return result, nil
}

func (r *orderRepository) lineItemsQuery(orders []orderRow) (string, []interface{}, error) {
	ids := make([]int64, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	query, args, err := squirrel.
		Select("li.order_id, li.product_id, li.product_title, li.quantity, li.amount, li.currency").
		From(lineItemsTable).
		Where(squirrel.Eq{"li.order_id": ids}).
		OrderBy("li.order_id ASC, li.id ASC").
		PlaceholderFormat(r.placeholder).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return query, args, nil
}

func (row orderRow) toRecord(items []domain.LineItem) domain.RawRecord {
	record := domain.RawRecord{
		ID:        strconv.FormatInt(row.ID, 10),
		Timestamp: row.CreatedAt.UTC(),
		NumericFields: map[string]decimal.Decimal{
			domain.FieldTotalPrice:     row.TotalPrice,
			domain.FieldSubtotalPrice:  row.SubtotalPrice,
			domain.FieldTotalDiscounts: row.TotalDiscounts,
			domain.FieldTotalShipping:  row.TotalShipping,
			domain.FieldTotalTax:       row.TotalTax,
			domain.FieldTotalRefunded:  row.TotalRefunded,
		},
		CategoricalFields: map[string]string{
			domain.FieldCurrency: normalizeCurrency(row.Currency),
		},
		LineItems: items,
	}

	if row.FinancialStatus.Valid {
		record.CategoricalFields[domain.FieldFinancialStatus] = row.FinancialStatus.String
	}
	if row.FulfillmentStatus.Valid {
		record.CategoricalFields[domain.FieldFulfillmentStatus] = row.FulfillmentStatus.String
	}
	if row.SourceName.Valid {
		record.CategoricalFields[domain.FieldSourceName] = row.SourceName.String
	}

	return record
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
