package internal

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	webhookRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigbot_webhook_requests_total",
			Help: "Webhook calls by fulfilled intent.",
		},
		[]string{"intent"},
	)
	webhookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigbot_webhook_duration_seconds",
			Help:    "Time spent fulfilling an intent.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"intent"},
	)
	catalogEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gigbot_catalog_events",
		Help: "Events held by the last catalog snapshot.",
	})
	catalogRefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gigbot_catalog_refresh_failures_total",
		Help: "Catalog refreshes that failed.",
	})
)

func init() {
	prometheus.MustRegister(webhookRequests, webhookDuration, catalogEvents, catalogRefreshFailures)
}
