package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheus_StagingBufferGrow(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg, "bbtr_test")

	p.StagingBufferGrow("default", 3)
	p.StagingBufferGrow("default", 2)

	if got := testutil.ToFloat64(p.bufferGrow.WithLabelValues("default")); got != 5 {
		t.Errorf("bufferGrow = %v, want 5", got)
	}
}

func TestPrometheus_StagingBufferReset(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg, "bbtr_test")

	p.StagingBufferReset("default")
	p.StagingBufferReset("default")

	if got := testutil.ToFloat64(p.bufferReset.WithLabelValues("default")); got != 2 {
		t.Errorf("bufferReset = %v, want 2", got)
	}
}

func TestPrometheus_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(reg, "bbtr_test")

	p.SetBufferGauge("default", 7)
	p.SetTaskGauge("default", 2)

	if got := testutil.ToFloat64(p.bufferGauge.WithLabelValues("default")); got != 7 {
		t.Errorf("bufferGauge = %v, want 7", got)
	}
	if got := testutil.ToFloat64(p.taskGauge.WithLabelValues("default")); got != 2 {
		t.Errorf("taskGauge = %v, want 2", got)
	}
}
