package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "beautyassist"

// Metrics счётчики движков и админского HTTP. Отдаются на /metrics
// админского сервера из собственного реестра
type Metrics struct {
	registry *prometheus.Registry

	AppointmentsCreated  prometheus.Counter
	AppointmentConflicts prometheus.Counter
	PromoRedemptions     prometheus.Counter
	PromoRejections      *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appointments_created_total",
			Help:      "Созданные записи",
		}),
		AppointmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "appointment_conflicts_total",
			Help:      "Попытки записи, отклонённые из-за пересечения интервалов",
		}),
		PromoRedemptions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "promo_redemptions_total",
			Help:      "Успешные погашения промокодов",
		}),
		PromoRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "promo_rejections_total",
			Help:      "Отклонённые промокоды по причинам",
		}, []string{"reason"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Запросы к админскому API",
		}, []string{"method", "path", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность запросов к админскому API",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AppointmentsCreated,
		m.AppointmentConflicts,
		m.PromoRedemptions,
		m.PromoRejections,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// ObserveHTTP учитывает один обработанный HTTP-запрос
func (m *Metrics) ObserveHTTP(method, path, code string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
