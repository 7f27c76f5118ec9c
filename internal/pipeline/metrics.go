package pipeline

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics mirrors the stage counters the stdout progress line reports,
// exposed for scraping alongside it (eth/stagedsync's stage_log_index.go
// registers a counter per stage the same way).
type metrics struct {
	registry *prometheus.Registry
	stages   *prometheus.CounterVec

	mu   sync.Mutex
	last map[string]float64 // last absolute count reported per stage, to turn observe's absolute counts into Counter deltas
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "xref",
		Subsystem: "indexer",
		Name:      "stage_progress_total",
		Help:      "Cumulative progress count reported by each indexing stage.",
	}, []string{"stage"})
	reg.MustRegister(stages)
	return &metrics{registry: reg, stages: stages, last: make(map[string]float64)}
}

// observe records that stage has reached the absolute cumulative count.
func (m *metrics) observe(stage string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.last[stage]
	cur := float64(count)
	if delta := cur - prev; delta > 0 {
		m.stages.WithLabelValues(stage).Add(delta)
	}
	m.last[stage] = cur
}

// Registry exposes the underlying Prometheus registry for cmd/xref-index
// to serve over HTTP.
func (m *metrics) Registry() *prometheus.Registry { return m.registry }
