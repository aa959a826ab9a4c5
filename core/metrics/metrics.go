package metrics

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for harvest activity.
// Each instance owns its registry so multiple instances (e.g. in tests)
// do not interfere.
type Metrics struct {
	registry *prometheus.Registry

	HarvestTotal    prometheus.Counter
	HarvestFailures prometheus.Counter
	HarvestDuration prometheus.Histogram

	RecordsCreated   prometheus.Gauge
	RecordsUpdated   prometheus.Gauge
	RecordsUnchanged prometheus.Gauge
	RecordsTotal     prometheus.Gauge
}

// New creates and registers the harvest collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HarvestTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harvester_passes_total",
			Help: "Total completed harvest passes.",
		}),
		HarvestFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "harvester_failures_total",
			Help: "Total harvest passes that failed.",
		}),
		HarvestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "harvester_pass_duration_seconds",
			Help:    "Duration of a full fetch-reconcile-persist pass.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		RecordsCreated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harvester_records_created",
			Help: "Records classified as created in the last pass.",
		}),
		RecordsUpdated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harvester_records_updated",
			Help: "Records classified as updated in the last pass.",
		}),
		RecordsUnchanged: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harvester_records_unchanged",
			Help: "Records classified as unchanged in the last pass.",
		}),
		RecordsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "harvester_records_total",
			Help: "Total records emitted by the last pass.",
		}),
	}

	m.registry.MustRegister(
		m.HarvestTotal,
		m.HarvestFailures,
		m.HarvestDuration,
		m.RecordsCreated,
		m.RecordsUpdated,
		m.RecordsUnchanged,
		m.RecordsTotal,
	)

	return m
}

// ObservePass records a successful harvest pass.
func (m *Metrics) ObservePass(created, updated, unchanged, total int, duration time.Duration) {
	m.HarvestTotal.Inc()
	m.HarvestDuration.Observe(duration.Seconds())
	m.RecordsCreated.Set(float64(created))
	m.RecordsUpdated.Set(float64(updated))
	m.RecordsUnchanged.Set(float64(unchanged))
	m.RecordsTotal.Set(float64(total))
}

// ObserveFailure records a failed harvest pass.
func (m *Metrics) ObserveFailure() {
	m.HarvestFailures.Inc()
}

// Handler returns a Fiber handler serving the registry in Prometheus format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
