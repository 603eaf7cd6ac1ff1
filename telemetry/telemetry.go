// Package telemetry provides a prometheus-backed implementation of
// bbtr.Telemetry. The runner core only calls through an interface; this
// package supplies the concrete metric types (matching the pack's
// per-component metrics convention, e.g. other_examples' webhook_engine
// and freader packages) without the runner itself owning how those
// metrics are scraped or shipped off-box.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/batchworks/bbtr"
)

var _ bbtr.Telemetry = (*Prometheus)(nil)

// Prometheus implements bbtr.Telemetry using a prometheus.Registerer. Its
// four metrics mirror the spec's telemetry surface exactly: two counters
// for the named staging-buffer events, and two gauges for the values
// returned by metrics().
type Prometheus struct {
	bufferGrow  *prometheus.CounterVec
	bufferReset *prometheus.CounterVec
	bufferGauge *prometheus.GaugeVec
	taskGauge   *prometheus.GaugeVec
}

// New registers the runner's metrics against reg and returns a Prometheus
// telemetry sink. namespace is used as the metric name prefix (for
// example "bbtr").
func New(reg prometheus.Registerer, namespace string) *Prometheus {
	p := &Prometheus{
		bufferGrow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staging_buffer",
			Name:      "grow_total",
			Help:      "Count of items added to the staging buffer via buffer().",
		}, []string{"handler"}),
		bufferReset: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staging_buffer",
			Name:      "reset_total",
			Help:      "Count of flushes that drained the staging buffer.",
		}, []string{"handler"}),
		bufferGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_gauge",
			Help:      "Staged items plus queued batches times max_batch_size.",
		}, []string{"handler"}),
		taskGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "task_gauge",
			Help:      "Handler invocations currently in flight.",
		}, []string{"handler"}),
	}

	reg.MustRegister(p.bufferGrow, p.bufferReset, p.bufferGauge, p.taskGauge)
	return p
}

// StagingBufferGrow implements bbtr.Telemetry.
func (p *Prometheus) StagingBufferGrow(handler string, count int) {
	p.bufferGrow.WithLabelValues(handler).Add(float64(count))
}

// StagingBufferReset implements bbtr.Telemetry.
func (p *Prometheus) StagingBufferReset(handler string) {
	p.bufferReset.WithLabelValues(handler).Inc()
}

// SetBufferGauge implements bbtr.Telemetry.
func (p *Prometheus) SetBufferGauge(handler string, value float64) {
	p.bufferGauge.WithLabelValues(handler).Set(value)
}

// SetTaskGauge implements bbtr.Telemetry.
func (p *Prometheus) SetTaskGauge(handler string, value float64) {
	p.taskGauge.WithLabelValues(handler).Set(value)
}
