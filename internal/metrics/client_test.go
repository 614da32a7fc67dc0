package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClientMetrics_Observe(t *testing.T) {
	m, err := NewClientMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	m.Observe("index_list", "ok", 200, 10*time.Millisecond)
	m.Observe("index_list", "request_failed", 404, time.Millisecond)
	m.Observe("index_list", "transport_rejected", 0, time.Millisecond)

	if v := testutil.ToFloat64(m.Operations().WithLabelValues("index_list", "ok")); v != 1 {
		t.Errorf("ok = %v", v)
	}
	if v := testutil.ToFloat64(m.Operations().WithLabelValues("index_list", "transport_rejected")); v != 1 {
		t.Errorf("transport_rejected = %v", v)
	}
	if v := testutil.ToFloat64(m.Responses().WithLabelValues("index_list", "404")); v != 1 {
		t.Errorf("404 = %v", v)
	}
	if n := testutil.CollectAndCount(m.Responses()); n != 2 {
		t.Errorf("response series = %d, want 2 (no series for status 0)", n)
	}
}

func TestClientMetrics_NilSafe(t *testing.T) {
	var m *ClientMetrics
	m.Observe("x", "ok", 200, time.Second)
}

func TestClientMetrics_IncompatibleCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "operations_total",
		Help:      "Total dispatched operations by outcome.",
	}, []string{"operation", "outcome"}))

	if _, err := NewClientMetrics(reg); err == nil {
		t.Error("expected error for incompatible collector")
	}
}

func TestRegisterEmbeddingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := RegisterEmbeddingMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RegisterEmbeddingMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	if a.Requests != b.Requests {
		t.Error("collectors not reused")
	}
	if _, err := RegisterEmbeddingMetrics(nil); err != nil {
		t.Errorf("nil registerer: %v", err)
	}
}
