package db

import (
	"errors"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	statements *prom.CounterVec
	duration   prom.Histogram
}

func newMetrics(reg prom.Registerer) *metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return &metrics{
		statements: register(reg, prom.NewCounterVec(prom.CounterOpts{
			Namespace: "todo",
			Name:      "statements_total",
			Help:      "Statements executed against Postgres by outcome",
		}, []string{"result"})),
		duration: register(reg, prom.NewHistogram(prom.HistogramOpts{
			Namespace: "todo",
			Name:      "statement_duration_seconds",
			Help:      "Wall time of a statement including connect and disconnect",
			Buckets:   prom.DefBuckets,
		})),
	}
}

// register returns the already registered collector when an identical one
// exists, so several executors can share a registry.
func register[T prom.Collector](reg prom.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prom.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) observe(err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.statements.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}
