// Package finance casos de uso del libro de caja: asientos manuales, resumen,
// presupuestos y caja física. El saldo nunca se almacena, siempre se deriva de los asientos.
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// FinanceUseCase libro de caja, presupuestos y caja física.
type FinanceUseCase struct {
	tx     repository.TxRunner
	policy access.Policy
	hooks  events.Hooks
	now    func() time.Time
}

// NewFinanceUseCase construye el caso de uso.
func NewFinanceUseCase(tx repository.TxRunner, policy access.Policy, hooks events.Hooks) *FinanceUseCase {
	return &FinanceUseCase{tx: tx, policy: policy, hooks: hooks, now: time.Now}
}

// WithClock reemplaza el reloj (fecha valor por defecto y períodos del resumen).
func (uc *FinanceUseCase) WithClock(now func() time.Time) *FinanceUseCase {
	uc.now = now
	return uc
}

// RecordEntry agrega un asiento manual. Los asientos de ventas y compras solo los generan
// Finalize e Invoice; un asiento manual no puede referenciarlas.
func (uc *FinanceUseCase) RecordEntry(ctx context.Context, actor access.Actor, in dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	if err := uc.policy.Authorize(actor, access.LedgerWrite); err != nil {
		return nil, err
	}
	if in.SaleID != nil {
		return nil, domain.Invalid("sale_id", "el ingreso de una venta se registra al finalizarla")
	}
	if in.PurchaseID != nil {
		return nil, domain.Invalid("purchase_id", "el egreso de una compra se registra al facturarla")
	}
	now := uc.now()
	valueDate := now
	if in.ValueDate != "" {
		d, err := parseDate("value_date", in.ValueDate, now.Location())
		if err != nil {
			return nil, err
		}
		valueDate = d
	}
	entry, err := entity.NewLedgerEntry(entity.Direction(in.Direction), in.Amount, entity.LedgerCategory(in.Category),
		in.Description, nil, nil, actor.UserID, valueDate, now)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		return r.Ledger.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.hooks.Log.Info().Str("entry_id", entry.ID).Str("direction", string(entry.Direction)).
		Str("amount", entry.Amount.StringFixed(2)).Str("actor", actor.UserID).Msg("asiento registrado")
	return toLedgerEntryResponse(entry), nil
}

// ListEntries lista asientos filtrando por sentido, categoría y rango de fecha valor.
func (uc *FinanceUseCase) ListEntries(ctx context.Context, q dto.LedgerQuery) ([]dto.LedgerEntryResponse, error) {
	filter := repository.LedgerFilter{
		Direction: entity.Direction(q.Direction),
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
	if q.Category != "" {
		c := entity.LedgerCategory(q.Category)
		if !c.Valid() {
			return nil, domain.Invalid("category", "categoría desconocida")
		}
		filter.Categories = []entity.LedgerCategory{c}
	}
	loc := uc.now().Location()
	if q.From != "" {
		d, err := parseDate("from", q.From, loc)
		if err != nil {
			return nil, err
		}
		filter.From = &d
	}
	if q.To != "" {
		d, err := parseDate("to", q.To, loc)
		if err != nil {
			return nil, err
		}
		filter.To = &d
	}
	var list []*entity.LedgerEntry
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Ledger.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toLedgerEntryResponse(e))
	}
	return out, nil
}

// Summary saldo acumulado más ingresos/egresos del día y del mes en curso.
// Las tres consultas corren en paralelo.
func (uc *FinanceUseCase) Summary(ctx context.Context) (*dto.LedgerSummaryResponse, error) {
	now := uc.now()
	today := entity.Day(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type result struct {
		totals dto.PeriodTotals
		err    error
	}
	balanceCh := make(chan result, 1)
	todayCh := make(chan result, 1)
	monthCh := make(chan result, 1)

	go func() {
		t, err := uc.totals(ctx, nil, nil)
		balanceCh <- result{t, err}
	}()
	go func() {
		t, err := uc.totals(ctx, &today, &today)
		todayCh <- result{t, err}
	}()
	go func() {
		t, err := uc.totals(ctx, &monthStart, &today)
		monthCh <- result{t, err}
	}()

	balance := <-balanceCh
	day := <-todayCh
	month := <-monthCh

	if balance.err != nil {
		return nil, fmt.Errorf("resumen: saldo: %w", balance.err)
	}
	if day.err != nil {
		return nil, fmt.Errorf("resumen: hoy: %w", day.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("resumen: mes: %w", month.err)
	}
	return &dto.LedgerSummaryResponse{
		Balance:   balance.totals.Net,
		Today:     day.totals,
		Month:     month.totals,
		DateLabel: monthLabel(now),
	}, nil
}

// Balance saldo derivado: Σ ingresos - Σ egresos.
func (uc *FinanceUseCase) Balance(ctx context.Context) (decimal.Decimal, error) {
	t, err := uc.totals(ctx, nil, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return t.Net, nil
}

func (uc *FinanceUseCase) totals(ctx context.Context, from, to *time.Time) (dto.PeriodTotals, error) {
	var revenue, expenses decimal.Decimal
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		revenue, err = r.Ledger.Sum(ctx, repository.LedgerFilter{Direction: entity.Inflow, From: from, To: to})
		if err != nil {
			return err
		}
		expenses, err = r.Ledger.Sum(ctx, repository.LedgerFilter{Direction: entity.Outflow, From: from, To: to})
		return err
	})
	if err != nil {
		return dto.PeriodTotals{}, err
	}
	return dto.PeriodTotals{
		Revenue:  revenue.Round(2),
		Expenses: expenses.Round(2),
		Net:      revenue.Sub(expenses).Round(2),
	}, nil
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "fecha inválida, use AAAA-MM-DD")
	}
	return d, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}

func toLedgerEntryResponse(e *entity.LedgerEntry) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		ID:          e.ID,
		Direction:   string(e.Direction),
		Amount:      e.Amount,
		Category:    string(e.Category),
		Description: e.Description,
		SaleID:      e.SaleID,
		PurchaseID:  e.PurchaseID,
		CreatedBy:   e.CreatedBy,
		ValueDate:   e.ValueDate,
		CreatedAt:   e.CreatedAt,
	}
}
