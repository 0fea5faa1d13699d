// Package metrics métricas Prometheus de las transiciones del flujo (venta, recepción, caja...).
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/domain"
)

var _ events.Recorder = (*Workflow)(nil)

// Workflow cuenta transiciones por resultado y observa su duración.
type Workflow struct {
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewWorkflow registra las métricas en reg. Con reg nil devuelve un Workflow que no registra nada.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	if reg == nil {
		return &Workflow{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tienda360",
		Name:      "transition_duration_seconds",
		Help:      "Duración de las transiciones del flujo en segundos.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"transition"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tienda360",
		Name:      "transitions_total",
		Help:      "Transiciones del flujo por resultado.",
	}, []string{"transition", "outcome"})
	reg.MustRegister(duration, transitions)
	return &Workflow{duration: duration, transitions: transitions}
}

// Observe registra una transición.
func (w *Workflow) Observe(transition string, elapsed time.Duration, err error) {
	if w == nil || w.duration == nil {
		return
	}
	transition = normalizeLabel(transition)
	w.duration.WithLabelValues(transition).Observe(elapsed.Seconds())
	w.transitions.WithLabelValues(transition, Outcome(err)).Inc()
}

// Outcome clasifica el error según la taxonomía de dominio.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return "denied"
	case errors.Is(err, domain.ErrIntegrity):
		return "integrity"
	default:
		return "error"
	}
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
