package overlay

import (
	"net/http"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes poll snapshots as Prometheus gauges on a dedicated
// registry. It implements SnapshotPublisher so the poller can treat it
// like any other snapshot sink.
type Metrics struct {
	registry *prometheus.Registry

	value     *prometheus.GaugeVec
	capacity  *prometheus.GaugeVec
	wastedMs  *prometheus.GaugeVec
	published prometheus.Counter
	clients   prometheus.Gauge
}

var _ ports.SnapshotPublisher = (*Metrics)(nil)

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "umatrack_resource_value",
			Help: "Current resource value.",
		}, []string{"kind"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "umatrack_resource_cap",
			Help: "Resource cap.",
		}, []string{"kind"}),
		wastedMs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "umatrack_wasted_at_cap_ms",
			Help: "Milliseconds spent pinned at cap within the active window.",
		}, []string{"kind"}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "umatrack_snapshots_published_total",
			Help: "Snapshots published to overlay surfaces.",
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "umatrack_overlay_clients",
			Help: "Connected overlay WebSocket clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.value,
		m.capacity,
		m.wastedMs,
		m.published,
		m.clients,
	)

	return m
}

func (m *Metrics) Publish(snapshot domain.OverlaySnapshot) {
	for _, res := range snapshot.Resources {
		kind := string(res.Kind)
		m.value.WithLabelValues(kind).Set(float64(res.Value))
		m.capacity.WithLabelValues(kind).Set(float64(res.Cap))
		m.wastedMs.WithLabelValues(kind).Set(float64(res.Wasted.Ms))
	}
	m.published.Inc()
}

// SetClients is driven by the hub on register/unregister.
func (m *Metrics) SetClients(n int) {
	m.clients.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
