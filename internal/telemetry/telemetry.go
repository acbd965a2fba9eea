// Package telemetry exposes the Prometheus collectors of the dashboard.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the application collectors on a private registry.
type Registry struct {
	reg *prometheus.Registry

	Uploads         *prometheus.CounterVec
	RowsIngested    prometheus.Counter
	Exports         *prometheus.CounterVec
	AlertsSent      prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers every collector.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_uploads_total",
		Help: "Inventory uploads by source (csv or manual).",
	}, []string{"source"})
	rows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_rows_ingested_total",
		Help: "Inventory rows accepted by ingestion.",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_exports_total",
		Help: "Metrics exports by format.",
	}, []string{"format"})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_alerts_sent_total",
		Help: "Low-stock alerts delivered to the webhook.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	r.MustRegister(uploads, rows, exports, alerts, duration)

	return &Registry{
		reg:             r,
		Uploads:         uploads,
		RowsIngested:    rows,
		Exports:         exports,
		AlertsSent:      alerts,
		RequestDuration: duration,
	}
}

// Handler serves the Prometheus exposition format.
func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
