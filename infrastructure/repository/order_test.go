package repository

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insights-engine/internal/domain"
)

// fakeQueryer devolve as linhas configuradas por tipo de destino e grava as consultas
type fakeQueryer struct {
	orders    []orderRow
	lineItems []lineItemRow
	events    []eventRow
	err       error

	queries []string
	args    [][]interface{}
}

func (f *fakeQueryer) SelectContext(_ context.Context, dest interface{}, query string, args ...interface{}) error {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)

	if f.err != nil {
		return f.err
	}

	switch d := dest.(type) {
	case *[]orderRow:
		*d = append(*d, f.orders...)
	case *[]lineItemRow:
		*d = append(*d, f.lineItems...)
	case *[]eventRow:
		*d = append(*d, f.events...)
	}
	return nil
}

func testFilter(t *testing.T, predicates map[string]string) domain.QueryFilter {
	t.Helper()
	filter, err := domain.NewQueryFilter(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		predicates,
	)
	require.NoError(t, err)
	return filter
}

func TestOrderRepository_OrdersQuery(t *testing.T) {
	tests := []struct {
		name        string
		placeholder squirrel.PlaceholderFormat
		predicates  map[string]string
		cursor      string
		validate    func(t *testing.T, query string, args []interface{}, err error)
	}{
		{
			name:        "Deve filtrar pelo intervalo meio aberto",
			placeholder: squirrel.Dollar,
			validate: func(t *testing.T, query string, args []interface{}, err error) {
				require.NoError(t, err)
				assert.Contains(t, query, "FROM orders o WHERE o.created_at >= $1 AND o.created_at < $2")
				assert.Contains(t, query, "ORDER BY o.id ASC LIMIT 51")
				require.Len(t, args, 2)
				assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), args[1])
			},
		},
		{
			name:        "Predicados e cursor com placeholder do mysql",
			placeholder: squirrel.Question,
			predicates:  map[string]string{"financial_status": "paid", "currency": "usd"},
			cursor:      "42",
			validate: func(t *testing.T, query string, args []interface{}, err error) {
				require.NoError(t, err)
				assert.Contains(t, query, "UPPER(o.currency) = ? AND o.financial_status = ?")
				assert.Contains(t, query, "o.id > ?")
				assert.NotContains(t, query, "$")
				assert.Equal(t, []interface{}{"USD", "paid", int64(42)}, args[2:])
			},
		},
		{
			name:        "Filtro desconhecido é rejeitado",
			placeholder: squirrel.Dollar,
			predicates:  map[string]string{"email": "x'; DROP TABLE orders; --"},
			validate: func(t *testing.T, query string, args []interface{}, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
		{
			name:        "Cursor inválido",
			placeholder: squirrel.Dollar,
			cursor:      "abc",
			validate: func(t *testing.T, query string, args []interface{}, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newOrderRepository(&fakeQueryer{}, tt.placeholder)
			query, args, err := repo.ordersQuery(testFilter(t, tt.predicates), 50, tt.cursor)
			tt.validate(t, query, args, err)
		})
	}
}

func TestOrderRepository_Query(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	queryer := &fakeQueryer{
		orders: []orderRow{
			{ID: 1, CreatedAt: created, Currency: "USD", TotalPrice: decimal.RequireFromString("100.00"), FinancialStatus: sql.NullString{String: "paid", Valid: true}},
			{ID: 2, CreatedAt: created, Currency: "USD", TotalPrice: decimal.RequireFromString("50.00")},
			{ID: 3, CreatedAt: created, Currency: "EUR", TotalPrice: decimal.RequireFromString("10.00")},
		},
		lineItems: []lineItemRow{
			{OrderID: 1, ProductID: sql.NullString{String: "P1", Valid: true}, ProductTitle: sql.NullString{String: "Camiseta", Valid: true}, Quantity: 2, Amount: decimal.RequireFromString("100.00"), Currency: "USD"},
			{OrderID: 2, Quantity: 1, Amount: decimal.RequireFromString("50.00"), Currency: "USD"},
		},
	}

	page, err := newOrderRepository(queryer, squirrel.Dollar).Query(context.Background(), testFilter(t, nil), 2, "")
	require.NoError(t, err)

	assert.True(t, page.HasNextPage)
	assert.Equal(t, "2", page.NextCursor)
	require.Len(t, page.Records, 2)

	first := page.Records[0]
	assert.Equal(t, "1", first.ID)
	status, _ := first.Categorical(domain.FieldFinancialStatus)
	assert.Equal(t, "paid", status)
	require.Len(t, first.LineItems, 1)
	assert.Equal(t, "P1", first.LineItems[0].ProductID)

	second := page.Records[1]
	_, hasStatus := second.Categorical(domain.FieldFinancialStatus)
	assert.False(t, hasStatus)
	require.Len(t, second.LineItems, 1)
	assert.Empty(t, second.LineItems[0].ProductID)

	require.Len(t, queryer.queries, 2)
	assert.Contains(t, queryer.queries[1], "li.order_id IN ($1,$2)")
	assert.Equal(t, []interface{}{int64(1), int64(2)}, queryer.args[1])
}

func TestOrderRepository_Query_NormalizesCurrency(t *testing.T) {
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	queryer := &fakeQueryer{
		orders: []orderRow{
			{ID: 1, CreatedAt: created, Currency: "usd", TotalPrice: decimal.RequireFromString("10.00")},
			{ID: 2, CreatedAt: created, Currency: " Usd ", TotalPrice: decimal.RequireFromString("20.00")},
		},
		lineItems: []lineItemRow{
			{OrderID: 1, Quantity: 1, Amount: decimal.RequireFromString("10.00"), Currency: "usd"},
		},
	}

	page, err := newOrderRepository(queryer, squirrel.Dollar).Query(context.Background(), testFilter(t, nil), 10, "")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)

	for _, record := range page.Records {
		currency, _ := record.Categorical(domain.FieldCurrency)
		assert.Equal(t, "USD", currency, "Deve normalizar a moeda do pedido %s", record.ID)
	}
	require.Len(t, page.Records[0].LineItems, 1)
	assert.Equal(t, "USD", page.Records[0].LineItems[0].Currency)
}

func TestOrderRepository_Query_EmptyPageSkipsLineItems(t *testing.T) {
	queryer := &fakeQueryer{}

	page, err := newOrderRepository(queryer, squirrel.Dollar).Query(context.Background(), testFilter(t, nil), 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.False(t, page.HasNextPage)
	assert.Len(t, queryer.queries, 1)
}

func TestOrderRepository_Query_Error(t *testing.T) {
	queryer := &fakeQueryer{err: errors.New(`pq: relation "orders" does not exist`)}

	_, err := newOrderRepository(queryer, squirrel.Dollar).Query(context.Background(), testFilter(t, nil), 10, "")

	var upstreamErr *domain.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadGateway, upstreamErr.Status)
	assert.False(t, upstreamErr.Temporary)
}
