// Package metrics holds the prometheus collectors of the client, the
// embedding provider and the fake API server.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pinecone"

// ClientMetrics counts dispatched operations, their outcomes and latency.
type ClientMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	responses  *prometheus.CounterVec
}

// NewClientMetrics registers client collectors on reg, reusing collectors a
// previous client already registered there.
func NewClientMetrics(reg prometheus.Registerer) (*ClientMetrics, error) {
	m := &ClientMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operations_total",
			Help:      "Total dispatched operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "operation_duration_seconds",
			Help:      "Operation duration in seconds, transport and parsing included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "http_responses_total",
			Help:      "HTTP responses received by status code.",
		}, []string{"operation", "code"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.responses); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished operation. outcome is "ok" or a failure
// kind; status is 0 when no response was received.
func (m *ClientMetrics) Observe(op, outcome string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(dur.Seconds())
	if status != 0 {
		m.responses.WithLabelValues(op, strconv.Itoa(status)).Inc()
	}
}

// Operations exposes the operations counter for tests.
func (m *ClientMetrics) Operations() *prometheus.CounterVec { return m.operations }

// Responses exposes the responses counter for tests.
func (m *ClientMetrics) Responses() *prometheus.CounterVec { return m.responses }

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("pinecone: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("pinecone: register metric: %w", err)
	}
	return nil
}
