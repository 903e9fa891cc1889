package collector

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics инструментирует один запуск. Заполняется оркестратором после сбора
// результатов, не воркерами. Nil *Metrics ничего не записывает.
type Metrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	value    *prometheus.GaugeVec
	severity *prometheus.GaugeVec
}

// NewMetrics создает метрики запуска и регистрирует их в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "motd_collect_duration_seconds",
			Help:    "Collection duration per metric family",
			Buckets: prometheus.DefBuckets,
		}, []string{"family"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "motd_collect_errors_total",
			Help: "Metric families that could not be collected",
		}, []string{"family", "reason"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "motd_collect_dropped_items_total",
			Help: "Items dropped because they could not be measured",
		}, []string{"family"}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "motd_reading_value",
			Help: "Last collected value per reading",
		}, []string{"family", "label"}),
		severity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "motd_reading_severity",
			Help: "Severity tier per reading (0 normal, 1 warning, 2 critical)",
		}, []string{"family", "label"}),
	}
	reg.MustRegister(m.duration, m.errors, m.dropped, m.value, m.severity)
	return m
}

// Observe записывает результат одного семейства.
func (m *Metrics) Observe(res Result) {
	if m == nil {
		return
	}

	family := res.Family.String()
	m.duration.WithLabelValues(family).Observe(res.Duration.Seconds())

	if res.Err != nil {
		reason := "error"
		switch {
		case errors.Is(res.Err, ErrTimeout):
			reason = "timeout"
		case errors.Is(res.Err, ErrInterrupted):
			reason = "interrupted"
		}
		m.errors.WithLabelValues(family, reason).Inc()
		return
	}

	m.dropped.WithLabelValues(family).Add(float64(len(res.Dropped)))
	for _, r := range res.Readings {
		m.value.WithLabelValues(family, r.Label).Set(r.Value)
		m.severity.WithLabelValues(family, r.Label).Set(float64(r.Severity))
	}
}
