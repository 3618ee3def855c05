package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipebook_client"

type metrics struct {
	// requests counts finished operations.
	// Labels: service (auth/recipe/rating), op, outcome (ok or an error kind).
	requests *prometheus.CounterVec

	// duration measures round trips, including body decoding.
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of service calls made by the gateway, by outcome.",
			},
			[]string{"service", "op", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of service calls made by the gateway.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "op"},
		),
	}
}
