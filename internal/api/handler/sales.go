package handler

import (
	"net/http"
	"net/url"

	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/log"
)

// parâmetros da query que não são predicados de filtro
var reservedParams = map[string]struct{}{
	"start_date": {},
	"end_date":   {},
	"currency":   {},
	"limit":      {},
	"interval":   {},
}

// queryArgs converte a query string nos argumentos da requisição. Parâmetros desconhecidos viram filtros.
func queryArgs(query url.Values) map[string]any {
	args := make(map[string]any)
	filters := make(map[string]string)

	for key, values := range query {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		if _, reserved := reservedParams[key]; reserved {
			args[key] = values[0]
			continue
		}
		filters[key] = values[0]
	}

	if len(filters) > 0 {
		args["filters"] = filters
	}

	return args
}

// GetSalesSummary retorna os totais de vendas do período
func GetSalesSummary(service insighting.SalesInsighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := insighting.DecodeSalesSummaryRequest(queryArgs(r.URL.Query()))
		if err != nil {
			writeFailure(w, r, "sales_summary", err)
			return
		}

		summary, err := service.GetSalesSummary(r.Context(), req)
		if err != nil {
			writeFailure(w, r, "sales_summary", err)
			return
		}

		writeJSON(w, r, http.StatusOK, summary)
	})
}

// GetSalesByProduct retorna o ranking de produtos por valor vendido
func GetSalesByProduct(service insighting.SalesInsighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := insighting.DecodeProductSalesRequest(queryArgs(r.URL.Query()))
		if err != nil {
			writeFailure(w, r, "sales_by_product", err)
			return
		}

		products, err := service.GetSalesByProduct(r.Context(), req)
		if err != nil {
			writeFailure(w, r, "sales_by_product", err)
			return
		}

		writeJSON(w, r, http.StatusOK, products)
	})
}

func GetSalesTrends(service insighting.SalesInsighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := insighting.DecodeSalesTrendsRequest(queryArgs(r.URL.Query()))
		if err != nil {
			writeFailure(w, r, "sales_trends", err)
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"operation": "sales_trends",
			"interval":  req.Interval,
		}).Debug("insights: computing trends")

		trends, err := service.GetSalesTrends(r.Context(), req)
		if err != nil {
			writeFailure(w, r, "sales_trends", err)
			return
		}

		writeJSON(w, r, http.StatusOK, trends)
	})
}
