package purchasing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/application/purchasing"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

var (
	manager = access.Actor{UserID: "u-gerente", Role: entity.RoleManager}
	cashier = access.Actor{UserID: "u-caja", Role: entity.RoleCashier}
	day     = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	store     *memory.Store
	purchases *purchasing.PurchaseUseCase
	catalog   *catalog.ProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ledger := inventory.NewStockLedger()
	policy := access.DefaultPolicy()
	hooks := events.NewHooks(nil, nil, zerolog.Nop())
	return &fixture{
		store:     store,
		purchases: purchasing.NewPurchaseUseCase(store, ledger, policy, hooks).WithClock(func() time.Time { return day }),
		catalog:   catalog.NewProductUseCase(store, ledger, policy),
	}
}

func (f *fixture) product(t *testing.T, sku string, qty int) string {
	t.Helper()
	cost := decimal.NewFromInt(3)
	p, err := f.catalog.Create(context.Background(), manager, dto.CreateProductRequest{
		SKU: sku, Name: sku, Price: decimal.NewFromInt(10), Cost: &cost, InitialQuantity: qty,
	})
	require.NoError(t, err)
	return p.ID
}

// ordered arma una compra con las líneas dadas (producto -> cantidad a precio 4) y la envía.
func (f *fixture) ordered(t *testing.T, lines ...string) *dto.PurchaseResponse {
	t.Helper()
	ctx := context.Background()
	supplier, err := f.purchases.CreateSupplier(ctx, manager, dto.CreateSupplierRequest{Name: "Distribuidora Norte"})
	require.NoError(t, err)
	o, err := f.purchases.Create(ctx, manager, dto.CreatePurchaseRequest{SupplierID: supplier.ID})
	require.NoError(t, err)
	price := decimal.NewFromInt(4)
	for _, productID := range lines {
		o, err = f.purchases.AddItem(ctx, manager, o.ID, dto.AddLineItemRequest{ProductID: productID, Quantity: 5, UnitPrice: &price})
		require.NoError(t, err)
	}
	o, err = f.purchases.Place(ctx, manager, o.ID)
	require.NoError(t, err)
	return o
}

func (f *fixture) productState(t *testing.T, id string) *dto.ProductResponse {
	t.Helper()
	p, err := f.catalog.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) outflows(t *testing.T, purchaseID string) []*entity.LedgerEntry {
	t.Helper()
	var out []*entity.LedgerEntry
	require.NoError(t, f.store.Run(context.Background(), func(r repository.Repos) error {
		var err error
		out, err = r.Ledger.ListByPurchase(context.Background(), purchaseID)
		return err
	}))
	return out
}

func TestCreate_NumeroConLetraA(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", 0)
	o := f.ordered(t, p)

	assert.Equal(t, "A202403150001", o.Number)
	assert.Equal(t, string(entity.PurchaseOrdered), o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(20)))
}

func TestCreate_ProveedorInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.purchases.Create(context.Background(), manager, dto.CreatePurchaseRequest{SupplierID: "nadie"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReceive_AsientaEntradasYCosto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 2)
	b := f.product(t, "B", 0)
	o := f.ordered(t, a, b)

	// de B llegaron solo 3
	var itemB string
	for _, it := range o.Items {
		if it.ProductID == b {
			itemB = it.ID
		}
	}
	_, err := f.purchases.SetReceivedQuantity(ctx, manager, o.ID, itemB, dto.SetReceivedRequest{ReceivedQuantity: 3})
	require.NoError(t, err)

	out, err := f.purchases.Receive(ctx, manager, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseReceived), out.Status)
	require.NotNil(t, out.ReceivedAt)

	pa := f.productState(t, a)
	assert.Equal(t, 7, pa.Quantity)
	assert.True(t, pa.Cost.Equal(decimal.NewFromInt(4)), "costo %s", pa.Cost)
	assert.Equal(t, 3, f.productState(t, b).Quantity)

	// recibir no toca la caja
	assert.Empty(t, f.outflows(t, o.ID))
}

func TestReceive_SoloDesdeOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0)
	o := f.ordered(t, a)

	_, err := f.purchases.Invoice(ctx, manager, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "no se factura sin recibir")

	_, err = f.purchases.Receive(ctx, manager, o.ID)
	require.NoError(t, err)

	_, err = f.purchases.Receive(ctx, manager, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "segunda recepción")
	assert.Equal(t, 5, f.productState(t, a).Quantity)
}

func TestReceive_CajeroNoPuede(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 0)
	o := f.ordered(t, a)

	_, err := f.purchases.Receive(context.Background(), cashier, o.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, 0, f.productState(t, a).Quantity)
}

func TestInvoice_RegistraEgresoUnaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0)
	o := f.ordered(t, a)

	_, err := f.purchases.Receive(ctx, manager, o.ID)
	require.NoError(t, err)
	out, err := f.purchases.Invoice(ctx, manager, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseInvoiced), out.Status)

	entries := f.outflows(t, o.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.Outflow, entries[0].Direction)
	assert.Equal(t, entity.CategoryPurchase, entries[0].Category)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(20)))

	_, err = f.purchases.Invoice(ctx, manager, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Len(t, f.outflows(t, o.ID), 1)
}

func TestEdit_SoloEnBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0)
	b := f.product(t, "B", 0)
	o := f.ordered(t, a)

	_, err := f.purchases.AddItem(ctx, manager, o.ID, dto.AddLineItemRequest{ProductID: b, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.purchases.RemoveItem(ctx, manager, o.ID, o.Items[0].ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestPlace_SinLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplier, err := f.purchases.CreateSupplier(ctx, manager, dto.CreateSupplierRequest{Name: "Vacía"})
	require.NoError(t, err)
	o, err := f.purchases.Create(ctx, manager, dto.CreatePurchaseRequest{SupplierID: supplier.ID})
	require.NoError(t, err)

	_, err = f.purchases.Place(ctx, manager, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// failingMovements falla en la llamada número failAt a Create.
type failingMovements struct {
	repository.StockMovementRepository
	calls  *int
	failAt int
}

func (m failingMovements) Create(ctx context.Context, mov *entity.StockMovement) error {
	*m.calls++
	if *m.calls == m.failAt {
		return errors.New("disco lleno")
	}
	return m.StockMovementRepository.Create(ctx, mov)
}

type failingTx struct {
	inner  repository.TxRunner
	failAt int
}

func (tx failingTx) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	calls := 0
	return tx.inner.Run(ctx, func(r repository.Repos) error {
		r.Movements = failingMovements{StockMovementRepository: r.Movements, calls: &calls, failAt: tx.failAt}
		return fn(r)
	})
}

func TestReceive_FallaEnLaSegundaLineaRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 2)
	b := f.product(t, "B", 1)
	o := f.ordered(t, a, b)

	broken := purchasing.NewPurchaseUseCase(failingTx{inner: f.store, failAt: 2}, inventory.NewStockLedger(),
		access.DefaultPolicy(), events.NewHooks(nil, nil, zerolog.Nop()))
	_, err := broken.Receive(ctx, manager, o.ID)
	require.Error(t, err)

	for id, qty := range map[string]int{a: 2, b: 1} {
		p := f.productState(t, id)
		assert.Equal(t, qty, p.Quantity)
		assert.True(t, p.Cost.Equal(decimal.NewFromInt(3)), "costo sin cambios")
	}
	got, err := f.purchases.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.PurchaseOrdered), got.Status)
	assert.Nil(t, got.ReceivedAt)

	var movs []*entity.StockMovement
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		var err error
		movs, err = r.Movements.ListByReference(ctx, o.Number)
		return err
	}))
	assert.Empty(t, movs)

	// el reintento con el almacén sano asienta las dos líneas
	_, err = f.purchases.Receive(ctx, manager, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, f.productState(t, a).Quantity)
	assert.Equal(t, 6, f.productState(t, b).Quantity)
}

func TestDelete_SoloBorradores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 0)

	supplier, err := f.purchases.CreateSupplier(ctx, manager, dto.CreateSupplierRequest{Name: "Temporal"})
	require.NoError(t, err)
	draft, err := f.purchases.Create(ctx, manager, dto.CreatePurchaseRequest{SupplierID: supplier.ID})
	require.NoError(t, err)
	_, err = f.purchases.AddItem(ctx, manager, draft.ID, dto.AddLineItemRequest{ProductID: a, Quantity: 2})
	require.NoError(t, err)

	assert.True(t, errors.Is(f.purchases.Delete(ctx, cashier, draft.ID), domain.ErrForbidden))
	require.NoError(t, f.purchases.Delete(ctx, manager, draft.ID))
	_, err = f.purchases.Get(ctx, draft.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	o := f.ordered(t, a)
	assert.True(t, errors.Is(f.purchases.Delete(ctx, manager, o.ID), domain.ErrInvalidTransition))
}
