// Package metrics expone las métricas Prometheus del servicio: HTTP y turnos de coaching.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
)

var _ coaching.Recorder = (*Metrics)(nil)

// Metrics colectores registrados en un registro propio (no el global) para poder testear.
type Metrics struct {
	reg *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	turnsTotal    *prometheus.CounterVec
	degradedTotal *prometheus.CounterVec
	quotaTotal    *prometheus.CounterVec
}

// New registra todos los colectores. openWidgets, si no es nil, alimenta un gauge.
func New(openWidgets func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	m := &Metrics{
		reg: reg,
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requisiciones HTTP recibidas.",
		}, []string{"method", "path", "code"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de las requisiciones HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "code"}),
		turnsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coaching_turns_total",
			Help: "Turnos despachados al endpoint de chat.",
		}, []string{"mode"}),
		degradedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coaching_degraded_replies_total",
			Help: "Turnos respondidos con el mensaje de respaldo.",
		}, []string{"mode"}),
		quotaTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coaching_quota_exhausted_total",
			Help: "Widgets que agotaron la cuota gratuita.",
		}, []string{"mode"}),
	}
	if openWidgets != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "coaching_open_widgets",
			Help: "Widgets abiertos en este proceso.",
		}, func() float64 { return float64(openWidgets()) })
	}
	return m
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// TurnDispatched implementa coaching.Recorder.
func (m *Metrics) TurnDispatched(mode coaching.Mode) {
	m.turnsTotal.WithLabelValues(string(mode)).Inc()
}

// TurnDegraded implementa coaching.Recorder.
func (m *Metrics) TurnDegraded(mode coaching.Mode) {
	m.degradedTotal.WithLabelValues(string(mode)).Inc()
}

// QuotaReached implementa coaching.Recorder.
func (m *Metrics) QuotaReached(mode coaching.Mode) {
	m.quotaTotal.WithLabelValues(string(mode)).Inc()
}

// Middleware mide cada requisición. Usa el patrón de la ruta (/api/widgets/:id)
// para no crear una serie por id.
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
		path := c.Route().Path
		code := strconv.Itoa(status)
		m.httpRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		m.httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
}
