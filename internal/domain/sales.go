package domain

// SalesTotals são os totais monetários de um conjunto de pedidos em uma única moeda
type SalesTotals struct {
	TotalOrders       int    `json:"total_orders"`
	TotalSales        Amount `json:"total_sales"`
	AverageOrderValue Amount `json:"average_order_value"`
	TotalDiscounts    Amount `json:"total_discounts"`
	TotalShipping     Amount `json:"total_shipping"`
	TotalTax          Amount `json:"total_tax"`
}

// SalesSummary é o resumo de vendas de um período.
// Os totais de topo só existem quando há uma única moeda.
type SalesSummary struct {
	StartDate         string                  `json:"start_date"`
	EndDate           string                  `json:"end_date"`
	TotalOrders       int                     `json:"total_orders"`
	Currency          string                  `json:"currency,omitempty"`
	TotalSales        *Amount                 `json:"total_sales,omitempty"`
	AverageOrderValue *Amount                 `json:"average_order_value,omitempty"`
	TotalDiscounts    *Amount                 `json:"total_discounts,omitempty"`
	TotalShipping     *Amount                 `json:"total_shipping,omitempty"`
	TotalTax          *Amount                 `json:"total_tax,omitempty"`
	MixedCurrency     bool                    `json:"mixed_currency"`
	SalesByCurrency   map[string]*SalesTotals `json:"sales_by_currency"`
	Truncated         bool                    `json:"truncated"`
	Warnings          []*PartialDataWarning   `json:"warnings,omitempty"`
}

type ProductSales struct {
	ProductID         string `json:"product_id"`
	ProductTitle      string `json:"product_title"`
	Currency          string `json:"currency"`
	TotalQuantity     int    `json:"total_quantity"`
	TotalSales        Amount `json:"total_sales"`
	OrderCount        int    `json:"order_count"`
	AverageOrderValue Amount `json:"average_order_value"`
}

// SalesByProduct lista os produtos ranqueados dentro de cada moeda. Limit vale por moeda.
type SalesByProduct struct {
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	Limit         int                   `json:"limit"`
	MixedCurrency bool                  `json:"mixed_currency"`
	Products      []*ProductSales       `json:"products"`
	Truncated     bool                  `json:"truncated"`
	Warnings      []*PartialDataWarning `json:"warnings,omitempty"`
}

type TrendPoint struct {
	Period            string `json:"period"`
	Currency          string `json:"currency"`
	TotalSales        Amount `json:"total_sales"`
	OrderCount        int    `json:"order_count"`
	AverageOrderValue Amount `json:"average_order_value"`
}

type SalesTrends struct {
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Interval  Interval              `json:"interval"`
	Trends    []*TrendPoint         `json:"trends"`
	Truncated bool                  `json:"truncated"`
	Warnings  []*PartialDataWarning `json:"warnings,omitempty"`
}
