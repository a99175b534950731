package execmetrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bridge exposes a Registry's counters, gauges and histograms through a
// real Prometheus client_golang registry, so the in-process values tracked
// above can be scraped over HTTP.
type Bridge struct {
	namespace string
	source    *Registry
	promReg   *prometheus.Registry

	mu       sync.Mutex
	known    map[string]struct{}
}

// NewBridge creates a Bridge that reads metric values from src and exposes
// them under the given namespace (e.g. "bedrock" produces
// "bedrock_engine_blocks_executed").
func NewBridge(namespace string, src *Registry) *Bridge {
	return &Bridge{
		namespace: namespace,
		source:    src,
		promReg:   prometheus.NewRegistry(),
		known:     make(map[string]struct{}),
	}
}

// sanitize converts a dotted metric name ("engine.blocks_executed") into a
// Prometheus-legal metric name segment ("engine_blocks_executed").
func sanitize(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		switch c := name[i]; c {
		case '.', '-':
			out[i] = '_'
		default:
			out[i] = c
		}
	}
	return string(out)
}

// Sync registers a GaugeFunc collector for every metric name currently
// present in the source Registry that has not been registered yet. Names
// already known are left untouched, so Sync is safe to call repeatedly as
// new metrics are created lazily (e.g. a per-host-function counter on its
// first call).
func (b *Bridge) Sync() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, v := range b.source.Snapshot() {
		switch v.(type) {
		case int64:
			b.registerOnce(name, func() float64 { return float64(gaugeOrCounterValue(b.source, name)) })
		case map[string]interface{}:
			for _, field := range []string{"count", "sum", "min", "max", "mean"} {
				full, f := name+"_"+field, field
				b.registerOnce(full, func() float64 { return histogramField(b.source, name, f) })
			}
		}
	}
}

func (b *Bridge) registerOnce(name string, value func() float64) {
	if _, ok := b.known[name]; ok {
		return
	}
	b.promReg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: b.namespace,
		Name:      sanitize(name),
	}, value))
	b.known[name] = struct{}{}
}

func gaugeOrCounterValue(r *Registry, name string) int64 {
	v, ok := r.Snapshot()[name]
	if !ok {
		return 0
	}
	i, _ := v.(int64)
	return i
}

func histogramField(r *Registry, name, field string) float64 {
	v, ok := r.Snapshot()[name]
	if !ok {
		return 0
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return 0
	}
	if field == "count" {
		if n, ok := m["count"].(int64); ok {
			return float64(n)
		}
		return 0
	}
	if f, ok := m[field].(float64); ok {
		return f
	}
	return 0
}

// Handler returns the http.Handler serving this bridge's registry in
// Prometheus text exposition format.
func (b *Bridge) Handler() http.Handler {
	return promhttp.HandlerFor(b.promReg, promhttp.HandlerOpts{})
}
