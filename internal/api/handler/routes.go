package handler

import (
	"net/http"

	"github.com/vfg2006/insights-engine/internal/api/handler/router"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/metrics"
	"github.com/vfg2006/insights-engine/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Sales(service insighting.SalesInsighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sales/summary",
			Method:      http.MethodGet,
			Handler:     GetSalesSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.InsightsReader()},
		},
		{
			Path:        "/v1/sales/products",
			Method:      http.MethodGet,
			Handler:     GetSalesByProduct(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.InsightsReader()},
		},
		{
			Path:        "/v1/sales/trends",
			Method:      http.MethodGet,
			Handler:     GetSalesTrends(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.InsightsReader()},
		},
	}
}

func Funnels(service insighting.FunnelInsighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/funnels",
			Method:      http.MethodPost,
			Handler:     AnalyzeFunnel(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.InsightsReader()},
		},
		{
			Path:        "/v1/cvr",
			Method:      http.MethodPost,
			Handler:     GetCVR(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.InsightsReader()},
		},
	}
}

func Reports(reporter DailyReporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/daily/run",
			Method:      http.MethodPost,
			Handler:     RunDailyReport(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.ReportRunner()},
		},
		{
			Path:        "/v1/reports/daily/status",
			Method:      http.MethodGet,
			Handler:     GetDailyReportStatus(reporter),
			Middlewares: []func(http.Handler) http.Handler{middleware.ReportRunner()},
		},
	}
}
