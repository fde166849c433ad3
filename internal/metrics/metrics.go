package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scviewer_fetch_total", Help: "Full contract fetches by result"},
		[]string{"result"},
	)
	CoalescedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "scviewer_coalesced_total", Help: "Fetches served from a pending or recent call"},
	)
	RPCCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "scviewer_rpc_calls_total", Help: "Get-method calls by method and result"},
		[]string{"method", "result"},
	)
	RPCDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "scviewer_rpc_duration_seconds", Help: "Get-method call duration", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
		[]string{"method"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		FetchTotal,
		CoalescedTotal,
		RPCCallsTotal,
		RPCDuration,
	)
}

func IncFetch(result string)	{ FetchTotal.WithLabelValues(result).Inc() }
func IncCoalesced()		{ CoalescedTotal.Inc() }

func ObserveRPC(method, result string, seconds float64) {
	RPCCallsTotal.WithLabelValues(method, result).Inc()
	RPCDuration.WithLabelValues(method).Observe(seconds)
}
