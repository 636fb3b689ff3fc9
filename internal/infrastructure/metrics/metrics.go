// Package metrics expone contadores Prometheus de importaciones y del API HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/validade-api/internal/application/importer"
)

var _ importer.Recorder = (*Metrics)(nil)

// Metrics registro propio (no el global) para poder instanciarlo en tests.
type Metrics struct {
	registry       *prometheus.Registry
	imports        *prometheus.CounterVec
	importRows     *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registra los collectors de la aplicación más los de runtime de Go y del proceso.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Importaciones de planillas por tipo y resultado.",
		}, []string{"kind", "outcome"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Filas importadas por tipo y resultado (processed, error, warning).",
		}, []string{"kind", "result"}),
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Duración de las importaciones.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.imports, m.importRows, m.importDuration, m.httpRequests, m.httpDuration,
	)
	return m
}

// ObserveImport registra el resultado de una importación.
func (m *Metrics) ObserveImport(kind string, res *importer.Result, elapsed time.Duration) {
	outcome := "success"
	if !res.Success {
		outcome = "failure"
	}
	m.imports.WithLabelValues(kind, outcome).Inc()
	m.importRows.WithLabelValues(kind, "processed").Add(float64(res.Processed))
	m.importRows.WithLabelValues(kind, "error").Add(float64(len(res.Errors)))
	m.importRows.WithLabelValues(kind, "warning").Add(float64(len(res.Warnings)))
	m.importDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Middleware cuenta requests usando la ruta registrada (no la URL) para acotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics en formato de exposición Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
