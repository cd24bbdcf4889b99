// Package metrics exposes the POS counters on a private prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout results
const (
	CheckoutSucceeded = "succeeded"
	CheckoutRejected  = "rejected"
	CheckoutFailed    = "failed"
)

// Print results
const (
	PrintSucceeded = "printed"
	PrintFailed    = "failed"
	PrintDisabled  = "disabled"
)

type Registry struct {
	reg *prometheus.Registry

	Checkouts         *prometheus.CounterVec
	CheckoutLatency   prometheus.Histogram
	Prints            *prometheus.CounterVec
	StatusTransitions *prometheus.CounterVec
	SalesTotal        prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPLatency       *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkouts_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	checkoutLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_checkout_duration_seconds",
		Help:    "Time spent committing an order.",
		Buckets: prometheus.DefBuckets,
	})
	prints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_receipt_prints_total",
		Help: "Receipt print attempts by result.",
	}, []string{"result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_order_status_transitions_total",
		Help: "Kitchen status changes by target status.",
	}, []string{"status"})
	salesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_amount_total",
		Help: "Sum of committed sale totals in currency units.",
	})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	r.MustRegister(
		checkouts, checkoutLatency, prints, transitions, salesTotal, httpRequests, httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:               r,
		Checkouts:         checkouts,
		CheckoutLatency:   checkoutLatency,
		Prints:            prints,
		StatusTransitions: transitions,
		SalesTotal:        salesTotal,
		HTTPRequests:      httpRequests,
		HTTPLatency:       httpLatency,
	}
}

// Gatherer gives tests access to collected values.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
