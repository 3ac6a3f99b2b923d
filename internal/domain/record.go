package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campos numéricos conhecidos dos registros de venda
const (
	FieldTotalPrice     = "total_price"
	FieldSubtotalPrice  = "subtotal_price"
	FieldTotalDiscounts = "total_discounts"
	FieldTotalShipping  = "total_shipping"
	FieldTotalTax       = "total_tax"
	FieldTotalRefunded  = "total_refunded"
	FieldDurationMs     = "duration_ms"
)

// Campos categóricos conhecidos
const (
	FieldCurrency          = "currency"
	FieldFinancialStatus   = "financial_status"
	FieldFulfillmentStatus = "fulfillment_status"
	FieldSourceName        = "source_name"
	FieldEventName         = "event_name"
)

// UnknownKey é o bucket usado quando a chave de agrupamento está ausente
const UnknownKey = "unknown"

// RawRecord é um registro bruto vindo de uma fonte paginada (pedido, evento, cobrança)
type RawRecord struct {
	ID                string
	Timestamp         time.Time
	NumericFields     map[string]decimal.Decimal
	CategoricalFields map[string]string
	LineItems         []LineItem
}

// Numeric retorna o valor numérico do campo ou zero quando ausente
func (r RawRecord) Numeric(field string) decimal.Decimal {
	if r.NumericFields == nil {
		return decimal.Zero
	}
	return r.NumericFields[field]
}

// Categorical retorna o valor categórico do campo e se ele existe
func (r RawRecord) Categorical(field string) (string, bool) {
	if r.CategoricalFields == nil {
		return "", false
	}
	value, ok := r.CategoricalFields[field]
	return value, ok && value != ""
}

type LineItem struct {
	ProductID    string
	ProductTitle string
	Quantity     int
	Amount       decimal.Decimal
	Currency     string
}

// Page é uma página de resultados de uma fonte
type Page struct {
	Records     []RawRecord
	HasNextPage bool
	NextCursor  string
}

// FetchResult é o conjunto completo de registros de uma consulta paginada
type FetchResult struct {
	Records   []RawRecord
	Pages     int
	Truncated bool
	Warning   *PartialDataWarning
}
