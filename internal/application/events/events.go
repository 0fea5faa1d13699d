// Package events define los eventos explícitos que emiten las transiciones y los puertos
// que los consumen (notificaciones y métricas). Se emiten después del commit.
package events

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Type tipo de evento.
type Type string

const (
	SaleFinalized    Type = "sale.finalized"
	PurchaseReceived Type = "purchase.received"
	PurchaseInvoiced Type = "purchase.invoiced"
	StockCritical    Type = "stock.critical"
)

// Level severidad para quien muestra la notificación.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

// Event notificación de negocio.
type Event struct {
	Type       Type              `json:"type"`
	Level      Level             `json:"level"`
	Title      string            `json:"title"`
	Reference  string            `json:"reference"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notifier sumidero de eventos. Un error nunca revierte la transición.
type Notifier interface {
	Notify(ctx context.Context, evt Event) error
}

// Recorder observa el resultado de cada transición (métricas).
type Recorder interface {
	Observe(transition string, elapsed time.Duration, err error)
}

// Hooks efectos posteriores al commit compartidos por los casos de uso.
type Hooks struct {
	Notifier Notifier
	Recorder Recorder
	Log      zerolog.Logger
}

// NewHooks construye Hooks; notifier y recorder pueden ser nil.
func NewHooks(notifier Notifier, recorder Recorder, log zerolog.Logger) Hooks {
	return Hooks{Notifier: notifier, Recorder: recorder, Log: log}
}

// Emit entrega los eventos; los errores se registran y se descartan.
func (h Hooks) Emit(ctx context.Context, evts ...Event) {
	if h.Notifier == nil {
		return
	}
	for _, evt := range evts {
		if err := h.Notifier.Notify(ctx, evt); err != nil {
			h.Log.Warn().Err(err).Str("event", string(evt.Type)).Str("reference", evt.Reference).Msg("notificación no entregada")
		}
	}
}

// Observe registra la duración y el resultado de una transición.
func (h Hooks) Observe(transition string, started time.Time, err error) {
	if h.Recorder == nil {
		return
	}
	h.Recorder.Observe(transition, time.Since(started), err)
}
