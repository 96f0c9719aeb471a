package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rocketcart"

// Metrics はカート操作/保存/外部参照の計測をまとめる。
// nil のままでも各メソッドは何もしない。
type Metrics struct {
	Registry *prometheus.Registry

	cartOps        *prometheus.CounterVec
	storageWrites  *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Cart mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		storageWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_storage_writes_total",
			Help:      "Cart persistence writes by outcome.",
		}, []string{"outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Latency of stock/product lookups.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "outcome"}),
	}
	reg.MustRegister(m.cartOps, m.storageWrites, m.lookupDuration)
	return m
}

func (m *Metrics) ObserveCartOperation(op string, outcome string) {
	if m == nil {
		return
	}
	m.cartOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) ObserveStorageWrite(err error) {
	if m == nil {
		return
	}
	m.storageWrites.WithLabelValues(outcomeOf(err)).Inc()
}

func (m *Metrics) ObserveLookup(resource string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.lookupDuration.WithLabelValues(resource, outcomeOf(err)).Observe(time.Since(start).Seconds())
}

// /metrics 用
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func outcomeOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
