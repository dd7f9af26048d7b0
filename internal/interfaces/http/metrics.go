package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas HTTP y de negocio expuestas en /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec
	AuthAttemptsTotal   *prometheus.CounterVec
	CheckoutsTotal      *prometheus.CounterVec
	SupplierOrdersTotal prometheus.Counter
}

// NewMetrics registra las métricas con el prefijo indicado.
// En tests se pasa un prometheus.NewRegistry() para no chocar con el registro global.
func NewMetrics(reg *prometheus.Registry, prefix string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total de peticiones HTTP",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		HTTPErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_errors_total",
			Help: "Respuestas HTTP 4xx/5xx por clase",
		}, []string{"class"}),
		AuthAttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Intentos de inicio de sesión por resultado",
		}, []string{"result"}),
		CheckoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_checkouts_total",
			Help: "Checkouts por resultado",
		}, []string{"result"}),
		SupplierOrdersTotal: f.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_supplier_orders_total",
			Help: "Pedidos a proveedor registrados",
		}),
	}
}

// Middleware mide cada petición. Usa la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler aún no escribió el status
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		code := strconv.Itoa(status)
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		switch {
		case status >= 500:
			m.HTTPErrorsTotal.WithLabelValues("5xx").Inc()
		case status >= 400:
			m.HTTPErrorsTotal.WithLabelValues("4xx").Inc()
		}
		return err
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

func (m *Metrics) authAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.AuthAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) checkout(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.CheckoutsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) supplierOrder() {
	if m == nil {
		return
	}
	m.SupplierOrdersTotal.Inc()
}
