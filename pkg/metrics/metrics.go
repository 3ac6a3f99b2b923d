// Package metrics registra os coletores Prometheus do serviço
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SourcePages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_source_pages_total",
			Help: "Pages read from record sources",
		},
		[]string{"source"},
	)

	SourceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_source_errors_total",
			Help: "Failed page reads by kind (transient, terminal, timeout)",
		},
		[]string{"source", "kind"},
	)

	SourceQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_source_query_duration_seconds",
			Help:    "Duration of a full paginated query",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	TruncatedQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_truncated_queries_total",
			Help: "Queries that stopped at the page cap",
		},
		[]string{"source"},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_operation_duration_seconds",
			Help:    "Duration of engine operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	registerOnce sync.Once
)

// Register registra os coletores no registry padrão. Pode ser chamado mais de uma vez.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SourcePages,
			SourceErrors,
			SourceQueryDuration,
			TruncatedQueries,
			OperationDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
