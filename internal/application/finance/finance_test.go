package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/finance"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

var (
	manager = access.Actor{UserID: "u-gerente", Role: entity.RoleManager}
	cashier = access.Actor{UserID: "u-caja", Role: entity.RoleCashier}
	now     = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
)

func newFinance() *finance.FinanceUseCase {
	return finance.NewFinanceUseCase(memory.New(), access.DefaultPolicy(), events.NewHooks(nil, nil, zerolog.Nop())).
		WithClock(func() time.Time { return now })
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func record(t *testing.T, uc *finance.FinanceUseCase, dir string, amount int64, category, valueDate string) {
	t.Helper()
	_, err := uc.RecordEntry(context.Background(), manager, dto.CreateLedgerEntryRequest{
		Direction: dir, Amount: d(amount), Category: category, ValueDate: valueDate,
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de caja
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_Validaciones(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()

	_, err := uc.RecordEntry(ctx, manager, dto.CreateLedgerEntryRequest{Direction: "INFLOW", Amount: d(0), Category: "other"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "monto cero")

	_, err = uc.RecordEntry(ctx, manager, dto.CreateLedgerEntryRequest{Direction: "SIDEWAYS", Amount: d(5), Category: "other"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sentido desconocido")

	_, err = uc.RecordEntry(ctx, manager, dto.CreateLedgerEntryRequest{Direction: "OUTFLOW", Amount: d(5), Category: "lotería"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "categoría desconocida")

	_, err = uc.RecordEntry(ctx, manager, dto.CreateLedgerEntryRequest{Direction: "OUTFLOW", Amount: decimal.RequireFromString("0.333"), Category: "other"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "más de 2 decimales")

	saleID := "cualquier-venta"
	_, err = uc.RecordEntry(ctx, manager, dto.CreateLedgerEntryRequest{Direction: "INFLOW", Amount: d(5), Category: "sale", SaleID: &saleID})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "un asiento manual no referencia ventas")

	_, err = uc.RecordEntry(ctx, cashier, dto.CreateLedgerEntryRequest{Direction: "INFLOW", Amount: d(5), Category: "other"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSummary_SaldoDiaYMes(t *testing.T) {
	uc := newFinance()
	record(t, uc, "INFLOW", 100, "sale", "2024-03-15")
	record(t, uc, "OUTFLOW", 30, "rent", "2024-03-15")
	record(t, uc, "INFLOW", 50, "sale", "2024-03-02")
	record(t, uc, "OUTFLOW", 40, "salary", "2024-02-28")

	s, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, s.Balance.Equal(d(80)), "saldo %s", s.Balance)
	assert.True(t, s.Today.Revenue.Equal(d(100)))
	assert.True(t, s.Today.Expenses.Equal(d(30)))
	assert.True(t, s.Today.Net.Equal(d(70)))
	assert.True(t, s.Month.Revenue.Equal(d(150)))
	assert.True(t, s.Month.Net.Equal(d(120)))
	assert.Equal(t, "Marzo 2024", s.DateLabel)

	balance, err := uc.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, balance.Equal(d(80)))
}

func TestListEntries_Filtros(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()
	record(t, uc, "INFLOW", 100, "sale", "2024-03-15")
	record(t, uc, "OUTFLOW", 30, "rent", "2024-03-10")
	record(t, uc, "OUTFLOW", 20, "rent", "2024-02-10")

	out, err := uc.ListEntries(ctx, dto.LedgerQuery{Direction: "OUTFLOW"})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = uc.ListEntries(ctx, dto.LedgerQuery{Category: "rent", From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Amount.Equal(d(30)))

	all, err := uc.ListEntries(ctx, dto.LedgerQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "INFLOW", all[0].Direction, "fecha valor más reciente primero")

	_, err = uc.ListEntries(ctx, dto.LedgerQuery{From: "15/03/2024"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Presupuestos
// ──────────────────────────────────────────────────────────────────────────────

func TestBudget_RealizadoSeCalculaAlConsultar(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()

	b, err := uc.CreateBudget(ctx, manager, dto.CreateBudgetRequest{
		Name: "Servicios marzo", Planned: d(200), From: "2024-03-01", To: "2024-03-31",
		Categories: []string{"electricity", "telecom"},
	})
	require.NoError(t, err)
	assert.True(t, b.Realized.IsZero())
	assert.True(t, b.Variance.Equal(d(200)))

	record(t, uc, "OUTFLOW", 50, "electricity", "2024-03-05")
	record(t, uc, "OUTFLOW", 80, "rent", "2024-03-05")    // otra categoría
	record(t, uc, "OUTFLOW", 10, "telecom", "2024-04-01") // fuera del período
	record(t, uc, "OUTFLOW", 25, "telecom", "2024-03-31")

	got, err := uc.GetBudget(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.Realized.Equal(d(75)), "realizado %s", got.Realized)
	assert.True(t, got.Variance.Equal(d(125)))
	assert.True(t, got.PercentUsed.Equal(decimal.RequireFromString("37.5")), "porcentaje %s", got.PercentUsed)

	list, err := uc.ListBudgets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Realized.Equal(d(75)))
}

func TestBudget_Invalido(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()

	_, err := uc.CreateBudget(ctx, manager, dto.CreateBudgetRequest{
		Name: "Al revés", Planned: d(10), From: "2024-03-31", To: "2024-03-01", Categories: []string{"rent"},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.GetBudget(ctx, "no-existe")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Caja física
// ──────────────────────────────────────────────────────────────────────────────

func TestCash_AperturaRetiroYCierre(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()

	open, err := uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "open", Amount: d(100)})
	require.NoError(t, err)
	assert.True(t, open.BalanceBefore.IsZero())
	assert.True(t, open.BalanceAfter.Equal(d(100)))
	assert.Nil(t, open.LedgerEntryID)

	_, err = uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "top_up", Amount: d(20)})
	require.NoError(t, err)

	w, err := uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "withdrawal", Amount: d(50), Category: "transport"})
	require.NoError(t, err)
	assert.True(t, w.BalanceBefore.Equal(d(120)))
	assert.True(t, w.BalanceAfter.Equal(d(70)))
	require.NotNil(t, w.LedgerEntryID, "el retiro genera un egreso")

	_, err = uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "withdrawal", Amount: d(500)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "retiro mayor al saldo")

	closed, err := uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "close", Amount: d(70)})
	require.NoError(t, err)
	assert.True(t, closed.BalanceAfter.IsZero())

	bal, err := uc.CashBalance(ctx)
	require.NoError(t, err)
	assert.True(t, bal.Balance.IsZero())

	entries, err := uc.ListEntries(ctx, dto.LedgerQuery{Direction: "OUTFLOW"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	cats := []string{entries[0].Category, entries[1].Category}
	assert.ElementsMatch(t, []string{"transport", "other"}, cats)
}

func TestCash_Validaciones(t *testing.T) {
	uc := newFinance()
	ctx := context.Background()

	_, err := uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "magia", Amount: d(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "top_up", Amount: d(0)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.RecordCash(ctx, manager, dto.CashMovementRequest{Kind: "open", Amount: decimal.RequireFromString("10.005")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "más de 2 decimales")

	_, err = uc.RecordCash(ctx, cashier, dto.CashMovementRequest{Kind: "open", Amount: d(10)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}
