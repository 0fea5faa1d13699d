package sales_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/finance"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/application/sales"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

var (
	admin   = access.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	cashier = access.Actor{UserID: "u-caja", Role: entity.RoleCashier}
	day     = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
)

type captureNotifier struct {
	mu   sync.Mutex
	evts []events.Event
}

func (n *captureNotifier) Notify(_ context.Context, evt events.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.evts = append(n.evts, evt)
	return nil
}

func (n *captureNotifier) types() []events.Type {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]events.Type, 0, len(n.evts))
	for _, e := range n.evts {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	sales    *sales.SaleUseCase
	catalog  *catalog.ProductUseCase
	stock    *inventory.StockUseCase
	notifier *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ledger := inventory.NewStockLedger()
	policy := access.DefaultPolicy()
	n := &captureNotifier{}
	hooks := events.NewHooks(n, nil, zerolog.Nop())
	return &fixture{
		store:    store,
		sales:    sales.NewSaleUseCase(store, ledger, policy, hooks).WithClock(func() time.Time { return day }),
		catalog:  catalog.NewProductUseCase(store, ledger, policy),
		stock:    inventory.NewStockUseCase(store, ledger, policy, hooks),
		notifier: n,
	}
}

func (f *fixture) product(t *testing.T, sku string, price int64, qty, threshold int) string {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), admin, dto.CreateProductRequest{
		SKU: sku, Name: sku, Price: decimal.NewFromInt(price), InitialQuantity: qty, ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) sale(t *testing.T, lines map[string]int) *dto.SaleResponse {
	t.Helper()
	ctx := context.Background()
	s, err := f.sales.Create(ctx, cashier, dto.CreateSaleRequest{CustomerName: "Cliente"})
	require.NoError(t, err)
	for productID, qty := range lines {
		s, err = f.sales.AddItem(ctx, cashier, s.ID, dto.AddLineItemRequest{ProductID: productID, Quantity: qty})
		require.NoError(t, err)
	}
	return s
}

func (f *fixture) quantity(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.catalog.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) ledgerForSale(t *testing.T, saleID string) []*entity.LedgerEntry {
	t.Helper()
	var out []*entity.LedgerEntry
	require.NoError(t, f.store.Run(context.Background(), func(r repository.Repos) error {
		var err error
		out, err = r.Ledger.ListBySale(context.Background(), saleID)
		return err
	}))
	return out
}

func (f *fixture) movementsFor(t *testing.T, reference string) []*entity.StockMovement {
	t.Helper()
	var out []*entity.StockMovement
	require.NoError(t, f.store.Run(context.Background(), func(r repository.Repos) error {
		var err error
		out, err = r.Movements.ListByReference(context.Background(), reference)
		return err
	}))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalize
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalize_AsientaStockYCaja(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 10, 5, 0)
	b := f.product(t, "B", 5, 4, 0)
	s := f.sale(t, map[string]int{a: 2, b: 1})

	out, err := f.sales.Finalize(context.Background(), cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(entity.SaleFinalized), out.Status)
	assert.Equal(t, string(entity.PaymentPaid), out.PaymentStatus)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(25)), "total %s", out.Total)
	assert.Equal(t, 3, f.quantity(t, a))
	assert.Equal(t, 3, f.quantity(t, b))

	entries := f.ledgerForSale(t, s.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.Inflow, entries[0].Direction)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, entity.CategorySale, entries[0].Category)

	deltas := map[string]int{}
	for _, m := range f.movementsFor(t, s.Number) {
		deltas[m.ProductID] += m.Delta
		assert.Equal(t, entity.SourceSale, m.Source)
	}
	assert.Equal(t, map[string]int{a: -2, b: -1}, deltas)
	assert.Contains(t, f.notifier.types(), events.SaleFinalized)
}

func TestFinalize_AsientaEnOrdenDeProducto(t *testing.T) {
	f := newFixture(t)
	lines := map[string]int{}
	for _, sku := range []string{"A", "B", "C", "D", "E"} {
		lines[f.product(t, sku, 1, 5, 0)] = 1
	}
	s := f.sale(t, lines)

	_, err := f.sales.Finalize(context.Background(), cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)

	var order []string
	for _, m := range f.movementsFor(t, s.Number) {
		order = append(order, m.ProductID)
	}
	require.Len(t, order, 5)
	assert.True(t, slices.IsSorted(order), "los productos se bloquean en orden de ID: %v", order)
}

func TestFinalize_UnSoloAsientoPorVenta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, 5, 0)
	s := f.sale(t, map[string]int{a: 1})
	_, err := f.sales.Finalize(ctx, cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)

	fin := finance.NewFinanceUseCase(f.store, access.DefaultPolicy(), events.NewHooks(nil, nil, zerolog.Nop()))
	_, err = fin.RecordEntry(ctx, admin, dto.CreateLedgerEntryRequest{
		Direction: "INFLOW", Amount: decimal.NewFromInt(10), Category: "sale", SaleID: &s.ID,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "un asiento manual no puede apuntar a la venta")

	// el almacén también rechaza un segundo asiento con la misma venta
	err = f.store.Run(ctx, func(r repository.Repos) error {
		dup, err := entity.NewLedgerEntry(entity.Inflow, decimal.NewFromInt(10), entity.CategorySale, "", &s.ID, nil, admin.UserID, day, day)
		require.NoError(t, err)
		return r.Ledger.Create(ctx, dup)
	})
	assert.True(t, errors.Is(err, domain.ErrIntegrity))

	assert.Len(t, f.ledgerForSale(t, s.ID), 1)
}

type durationRecorder struct {
	mu      sync.Mutex
	elapsed map[string]time.Duration
}

func (r *durationRecorder) Observe(transition string, elapsed time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elapsed[transition] = elapsed
}

func TestFinalize_DuracionConRelojFijo(t *testing.T) {
	rec := &durationRecorder{elapsed: map[string]time.Duration{}}
	store := memory.New()
	ledger := inventory.NewStockLedger()
	policy := access.DefaultPolicy()
	uc := sales.NewSaleUseCase(store, ledger, policy, events.NewHooks(nil, rec, zerolog.Nop())).
		WithClock(func() time.Time { return day })
	f := &fixture{store: store, sales: uc, catalog: catalog.NewProductUseCase(store, ledger, policy)}

	a := f.product(t, "A", 10, 5, 0)
	s := f.sale(t, map[string]int{a: 1})
	_, err := f.sales.Finalize(context.Background(), cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	got, ok := rec.elapsed["sale.finalize"]
	require.True(t, ok)
	assert.Less(t, got, time.Minute, "la duración no depende del reloj de negocio")
}

func TestFinalize_SegundaVezEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 10, 5, 0)
	s := f.sale(t, map[string]int{a: 1})
	ctx := context.Background()

	_, err := f.sales.Finalize(ctx, cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)

	_, err = f.sales.Finalize(ctx, cashier, s.ID, dto.FinalizeSaleRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	assert.Len(t, f.ledgerForSale(t, s.ID), 1)
	assert.Len(t, f.movementsFor(t, s.Number), 1)
	assert.Equal(t, 4, f.quantity(t, a))
}

func TestFinalize_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, 5, 0)
	b := f.product(t, "B", 5, 3, 0)
	s := f.sale(t, map[string]int{a: 2, b: 3})

	// la existencia de B baja después de armar la venta
	_, err := f.stock.Adjust(ctx, admin, dto.AdjustStockRequest{ProductID: b, Delta: -2, Source: "loss"})
	require.NoError(t, err)

	_, err = f.sales.Finalize(ctx, cashier, s.ID, dto.FinalizeSaleRequest{})
	require.Error(t, err)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, b, insufficient.ProductID)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	assert.Equal(t, 5, f.quantity(t, a))
	assert.Equal(t, 1, f.quantity(t, b))
	assert.Empty(t, f.movementsFor(t, s.Number))
	assert.Empty(t, f.ledgerForSale(t, s.ID))

	got, err := f.sales.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.SaleDraft), got.Status)
}

func TestFinalize_VentaSinLineas(t *testing.T) {
	f := newFixture(t)
	s := f.sale(t, nil)

	_, err := f.sales.Finalize(context.Background(), cashier, s.ID, dto.FinalizeSaleRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFinalize_PagoParcialYAbono(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, 5, 0)
	s := f.sale(t, map[string]int{a: 3})

	received := decimal.NewFromInt(12)
	out, err := f.sales.Finalize(ctx, cashier, s.ID, dto.FinalizeSaleRequest{AmountReceived: &received})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentPartial), out.PaymentStatus)
	assert.True(t, out.Outstanding.Equal(decimal.NewFromInt(18)))

	_, err = f.sales.RecordPayment(ctx, cashier, s.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(20)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "abono mayor al saldo")

	out, err = f.sales.RecordPayment(ctx, cashier, s.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(18)})
	require.NoError(t, err)
	assert.Equal(t, string(entity.PaymentPaid), out.PaymentStatus)

	// el ingreso se asentó una sola vez, por el total
	entries := f.ledgerForSale(t, s.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(30)))

	_, err = f.sales.RecordPayment(ctx, cashier, s.ID, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestFinalize_EmiteStockCritico(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 10, 5, 3)
	s := f.sale(t, map[string]int{a: 2})

	_, err := f.sales.Finalize(context.Background(), cashier, s.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)
	assert.Contains(t, f.notifier.types(), events.StockCritical)
}

func TestFinalize_VentasConcurrentesSobreElMismoProducto(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1, 10, 0)
	s1 := f.sale(t, map[string]int{a: 3})
	s2 := f.sale(t, map[string]int{a: 4})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{s1.ID, s2.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.sales.Finalize(context.Background(), cashier, id, dto.FinalizeSaleRequest{})
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 3, f.quantity(t, a))
}

func TestFinalize_ConcurrentesSinExistenciaParaAmbas(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1, 10, 0)
	s1 := f.sale(t, map[string]int{a: 6})
	s2 := f.sale(t, map[string]int{a: 6})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{s1.ID, s2.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.sales.Finalize(context.Background(), cashier, id, dto.FinalizeSaleRequest{})
		}(i, id)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
			failed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 4, f.quantity(t, a))
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración y borrador
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumerosConsecutivosBajoConcurrencia(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var wg sync.WaitGroup
	numbers := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := f.sales.Create(context.Background(), cashier, dto.CreateSaleRequest{})
			if assert.NoError(t, err) {
				numbers[i] = s.Number
			}
		}(i)
	}
	wg.Wait()

	want := make([]string, n)
	for i := range want {
		want[i] = fmt.Sprintf("V20240315%04d", i+1)
	}
	assert.ElementsMatch(t, want, numbers)
}

func TestAddItem_ProductoRepetidoYExistencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, 2, 0)
	s := f.sale(t, map[string]int{a: 1})

	_, err := f.sales.AddItem(ctx, cashier, s.ID, dto.AddLineItemRequest{ProductID: a, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "producto repetido")

	item := s.Items[0]
	_, err = f.sales.UpdateItem(ctx, cashier, s.ID, item.ID, dto.UpdateLineItemRequest{Quantity: 3})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "supera la existencia")

	out, err := f.sales.RemoveItem(ctx, cashier, s.ID, item.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.True(t, out.Total.IsZero())
}

func TestAddItem_PrecioConMasDeDosDecimales(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 10, 5, 0)
	s := f.sale(t, nil)

	price := decimal.RequireFromString("0.333")
	_, err := f.sales.AddItem(context.Background(), cashier, s.ID, dto.AddLineItemRequest{ProductID: a, Quantity: 3, UnitPrice: &price})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	got, err := f.sales.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestAddItem_ExponeDescuento(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 80, 5, 0)
	s := f.sale(t, nil)

	price := decimal.NewFromInt(60)
	out, err := f.sales.AddItem(context.Background(), cashier, s.ID, dto.AddLineItemRequest{ProductID: a, Quantity: 2, UnitPrice: &price})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Discount.Equal(decimal.NewFromInt(20)), "descuento %s", out.Items[0].Discount)
	assert.True(t, out.Items[0].DiscountPercent.Equal(decimal.NewFromInt(25)), "porcentaje %s", out.Items[0].DiscountPercent)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(120)))
}

func TestDelete_SoloBorradores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 10, 5, 0)

	draft := f.sale(t, map[string]int{a: 1})
	require.NoError(t, f.sales.Delete(ctx, cashier, draft.ID))
	_, err := f.sales.Get(ctx, draft.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(f.sales.Delete(ctx, cashier, draft.ID), domain.ErrNotFound))

	done := f.sale(t, map[string]int{a: 1})
	_, err = f.sales.Finalize(ctx, cashier, done.ID, dto.FinalizeSaleRequest{})
	require.NoError(t, err)
	err = f.sales.Delete(ctx, cashier, done.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Len(t, f.ledgerForSale(t, done.ID), 1)
	assert.Len(t, f.movementsFor(t, done.Number), 1)
}

func TestCreate_SinActorNoAutorizado(t *testing.T) {
	f := newFixture(t)
	_, err := f.sales.Create(context.Background(), access.Actor{}, dto.CreateSaleRequest{})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
