// Package metrics expone contadores Prometheus de negocio y la duración de las peticiones HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/estoque-api/internal/application/ports"
)

const namespace = "estoque"

var _ ports.MetricsRecorder = (*Metrics)(nil)

// Metrics agrupa los collectors en un registry propio.
type Metrics struct {
	registry    *prometheus.Registry
	movements   *prometheus.CounterVec
	transitions *prometheus.CounterVec
	printJobs   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New registra los collectors, incluidos los de runtime y proceso.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_total",
			Help:      "Movimentos de estoque registrados, por tipo.",
		}, []string{"type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Transições de status de pedidos.",
		}, []string{"from", "to"}),
		printJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "print_jobs_total",
			Help:      "Trabalhos de impressão enviados, por resultado.",
		}, []string{"result"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duração das requisições HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.movements, m.transitions, m.printJobs, m.httpLatency,
	)
	return m
}

func (m *Metrics) MovementRecorded(movementType string) {
	m.movements.WithLabelValues(movementType).Inc()
}

func (m *Metrics) OrderTransitioned(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) PrintJob(result string) {
	m.printJobs.WithLabelValues(result).Inc()
}

// Handler página /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware mide cada petición con la ruta registrada (no la URL cruda) para acotar cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.httpLatency.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
