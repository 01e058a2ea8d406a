package observability

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danmuck/sensorlink/internal/protocol/frame"
)

var (
	registerOnce sync.Once

	exchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sensorlink",
			Subsystem: "channel",
			Name:      "exchanges_total",
			Help:      "Total physical write/read exchanges.",
		},
		[]string{"transport", "status"},
	)
	checksumErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sensorlink",
			Subsystem: "channel",
			Name:      "checksum_errors_total",
			Help:      "Responses rejected for a checksum mismatch.",
		},
		[]string{"transport"},
	)
	exchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sensorlink",
			Subsystem: "channel",
			Name:      "exchange_duration_seconds",
			Help:      "Physical exchange duration in seconds, delays included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"transport"},
	)
)

// RegisterMetrics registers the channel metrics with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(exchanges, checksumErrors, exchangeDuration)
	})
}

// ObserveExchange records the outcome of one physical exchange.
func ObserveExchange(transport string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	exchanges.WithLabelValues(transport, status).Inc()
	exchangeDuration.WithLabelValues(transport).Observe(elapsed.Seconds())

	var ce *frame.ChecksumError
	if errors.As(err, &ce) {
		checksumErrors.WithLabelValues(transport).Inc()
	}
}
