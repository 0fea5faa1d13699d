// Package notify sumideros de eventos de negocio: log estructurado, Redis pub/sub y abanico.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/tienda360-api/internal/application/events"
)

// Formatter arma el texto legible de un evento con montos localizados.
type Formatter struct {
	p *message.Printer
}

// NewFormatter formateador para el idioma dado.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{p: message.NewPrinter(tag)}
}

// Amount monto con separadores de miles y dos decimales.
func (f Formatter) Amount(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.p.Sprintf("%.2f", v)
}

// Text título más el total cuando el evento lo trae.
func (f Formatter) Text(evt events.Event) string {
	raw, ok := evt.Data["total"]
	if !ok {
		return evt.Title
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return evt.Title
	}
	return f.p.Sprintf("%s - total %s", evt.Title, f.Amount(total))
}

// LogNotifier escribe cada evento en el log.
type LogNotifier struct {
	log zerolog.Logger
	fmt Formatter
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log zerolog.Logger, f Formatter) *LogNotifier {
	return &LogNotifier{log: log, fmt: f}
}

// Notify nunca falla.
func (n *LogNotifier) Notify(_ context.Context, evt events.Event) error {
	e := n.log.Info()
	if evt.Level == events.LevelWarning {
		e = n.log.Warn()
	}
	e.Str("event", string(evt.Type)).Str("reference", evt.Reference).Fields(toFields(evt.Data)).Msg(n.fmt.Text(evt))
	return nil
}

func toFields(data map[string]string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Multi reparte el evento a todos los sumideros; junta los errores.
type Multi []events.Notifier

// Notify entrega a cada sumidero aunque alguno falle.
func (m Multi) Notify(ctx context.Context, evt events.Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
