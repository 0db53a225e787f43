// Package metrics holds the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the application counters.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	SignupsCreated prometheus.Counter
	SIPsCreated    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sip_http_requests_total",
			Help: "HTTP requests served, by route, method, and status.",
		}, []string{"route", "method", "status"}),
		SignupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sip_signups_created_total",
			Help: "Accounts created through the signup endpoint.",
		}),
		SIPsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sip_records_created_total",
			Help: "Investment records created through the SIP endpoint.",
		}),
	}
}
