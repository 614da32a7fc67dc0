package metrics

import "github.com/prometheus/client_golang/prometheus"

// EmbeddingMetrics tracks calls to the text embedding provider.
type EmbeddingMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Tokens   *prometheus.CounterVec
	Errors   *prometheus.CounterVec
}

// RegisterEmbeddingMetrics registers embedding collectors on reg, reusing
// existing ones. A nil reg yields unregistered collectors.
func RegisterEmbeddingMetrics(reg prometheus.Registerer) (*EmbeddingMetrics, error) {
	m := &EmbeddingMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_requests_total",
				Help:      "Total number of embedding requests",
			},
			[]string{"provider", "model", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "embedding_request_duration_seconds",
				Help:      "Embedding request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider", "model"},
		),
		Tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_tokens_total",
				Help:      "Total embedding tokens consumed",
			},
			[]string{"provider", "model", "type"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "embedding_errors_total",
				Help:      "Total embedding errors",
			},
			[]string{"provider", "model", "error_type"},
		),
	}
	if reg == nil {
		return m, nil
	}
	if err := registerOrReuse(reg, &m.Requests); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.Duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.Tokens); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.Errors); err != nil {
		return nil, err
	}
	return m, nil
}
