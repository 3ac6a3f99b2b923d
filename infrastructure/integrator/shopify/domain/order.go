package shopifydomain

import "time"

// Money é o valor como string decimal, como a Admin API envia
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type MoneyBag struct {
	ShopMoney Money `json:"shopMoney"`
}

type Order struct {
	ID                       string             `json:"id"`
	Name                     string             `json:"name"`
	CreatedAt                time.Time          `json:"createdAt"`
	CurrencyCode             string             `json:"currencyCode"`
	DisplayFinancialStatus   string             `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string             `json:"displayFulfillmentStatus"`
	SourceName               *string            `json:"sourceName"`
	TotalPriceSet            MoneyBag           `json:"totalPriceSet"`
	SubtotalPriceSet         *MoneyBag          `json:"subtotalPriceSet"`
	TotalDiscountsSet        *MoneyBag          `json:"totalDiscountsSet"`
	TotalShippingPriceSet    *MoneyBag          `json:"totalShippingPriceSet"`
	TotalTaxSet              *MoneyBag          `json:"totalTaxSet"`
	TotalRefundedSet         *MoneyBag          `json:"totalRefundedSet"`
	LineItems                LineItemConnection `json:"lineItems"`
}

// LineItemConnection traz no máximo 100 itens por pedido. Os demais são buscados pelo cursor.
type LineItemConnection struct {
	Nodes    []LineItem `json:"nodes"`
	PageInfo PageInfo   `json:"pageInfo"`
}

type LineItem struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Quantity         int      `json:"quantity"`
	Product          *Product `json:"product"`
	OriginalTotalSet MoneyBag `json:"originalTotalSet"`
}

// Product vem nulo quando o produto foi removido da loja
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type OrderConnection struct {
	Nodes    []Order  `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}
