package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

var (
	manager = access.Actor{UserID: "u-gerente", Role: entity.RoleManager}
	cashier = access.Actor{UserID: "u-caja", Role: entity.RoleCashier}
)

type fixture struct {
	store   *memory.Store
	ledger  *inventory.StockLedger
	stock   *inventory.StockUseCase
	catalog *catalog.ProductUseCase
}

func newFixture() *fixture {
	store := memory.New()
	ledger := inventory.NewStockLedger()
	policy := access.DefaultPolicy()
	return &fixture{
		store:   store,
		ledger:  ledger,
		stock:   inventory.NewStockUseCase(store, ledger, policy, events.NewHooks(nil, nil, zerolog.Nop())),
		catalog: catalog.NewProductUseCase(store, ledger, policy),
	}
}

func (f *fixture) product(t *testing.T, sku string, qty, threshold int) string {
	t.Helper()
	cost := decimal.NewFromInt(2)
	p, err := f.catalog.Create(context.Background(), manager, dto.CreateProductRequest{
		SKU: sku, Name: sku, Price: decimal.NewFromInt(5), Cost: &cost, InitialQuantity: qty, ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.catalog.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestPost_FotoAntesDespues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.product(t, "A", 10, 0)

	var posting *inventory.Posting
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		var err error
		posting, err = f.ledger.Post(ctx, r, inventory.PostInput{ProductID: id, Delta: -4, Source: entity.SourceManual, Actor: "u1"})
		return err
	}))

	assert.Equal(t, 10, posting.Movement.QuantityBefore)
	assert.Equal(t, 6, posting.Movement.QuantityAfter)
	assert.Equal(t, entity.MovementOut, posting.Movement.Kind)
	assert.Equal(t, 6, f.quantity(t, id))
}

func TestPostAll_OrdenaPorProductoYCortaEnElPrimerError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ids := []string{f.product(t, "A", 5, 0), f.product(t, "B", 5, 0), f.product(t, "C", 5, 0)}
	inputs := []inventory.PostInput{
		{ProductID: ids[2], Delta: -1, Source: entity.SourceManual, Actor: "u1"},
		{ProductID: ids[0], Delta: -1, Source: entity.SourceManual, Actor: "u1"},
		{ProductID: ids[1], Delta: -1, Source: entity.SourceManual, Actor: "u1"},
	}

	var postings []*inventory.Posting
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		var err error
		postings, err = f.ledger.PostAll(ctx, r, inputs)
		return err
	}))
	require.Len(t, postings, 3)
	for i := 1; i < len(postings); i++ {
		assert.Less(t, postings[i-1].Product.ID, postings[i].Product.ID)
	}
	assert.Equal(t, ids[2], inputs[0].ProductID, "no reordena la entrada del llamador")

	inputs[1].Delta = -50
	err := f.store.Run(ctx, func(r repository.Repos) error {
		_, err := f.ledger.PostAll(ctx, r, inputs)
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	for _, id := range ids {
		assert.Equal(t, 4, f.quantity(t, id))
	}
}

func TestPost_ProductoInexistenteYOrigenInvalido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.product(t, "A", 1, 0)

	err := f.store.Run(ctx, func(r repository.Repos) error {
		_, err := f.ledger.Post(ctx, r, inventory.PostInput{ProductID: "nada", Delta: 1, Source: entity.SourceManual})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = f.store.Run(ctx, func(r repository.Repos) error {
		_, err := f.ledger.Post(ctx, r, inventory.PostInput{ProductID: id, Delta: 1, Source: "regalo"})
		return err
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAdjust_SoloOrigenesManuales(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.product(t, "A", 3, 0)

	_, err := f.stock.Adjust(ctx, manager, dto.AdjustStockRequest{ProductID: id, Delta: 1, Source: "sale"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	mov, err := f.stock.Adjust(ctx, manager, dto.AdjustStockRequest{ProductID: id, Delta: 2, Source: "return", Reason: "devolución"})
	require.NoError(t, err)
	assert.Equal(t, "return", mov.Source)
	assert.Equal(t, 5, mov.QuantityAfter)

	_, err = f.stock.Adjust(ctx, manager, dto.AdjustStockRequest{ProductID: id, Delta: -9})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 5, f.quantity(t, id))

	_, err = f.stock.Adjust(ctx, cashier, dto.AdjustStockRequest{ProductID: id, Delta: 1})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestListMovements_MasRecientesPrimero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.product(t, "A", 3, 0)
	_, err := f.stock.Adjust(ctx, manager, dto.AdjustStockRequest{ProductID: id, Delta: -1, Source: "loss"})
	require.NoError(t, err)

	list, err := f.stock.ListMovements(ctx, id, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, -1, list[0].Delta)
	assert.Equal(t, 3, list[1].Delta)

	_, err = f.stock.ListMovements(ctx, "nada", 10, 0)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReorderList_SugiereHastaUmbralYMedio(t *testing.T) {
	f := newFixture()
	low := f.product(t, "BAJO", 2, 10)
	f.product(t, "OK", 50, 10)

	list, err := f.stock.ReorderList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low, list[0].ProductID)
	assert.Equal(t, 15, list[0].IdealStock)
	assert.Equal(t, 13, list[0].SuggestedOrderQty)
	assert.True(t, list[0].EstimatedOrderCost.Equal(decimal.NewFromInt(26)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Toma física
// ──────────────────────────────────────────────────────────────────────────────

func TestStockCount_CierreAsientaDiferencias(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.product(t, "A", 10, 0)
	b := f.product(t, "B", 4, 0)
	c := f.product(t, "C", 7, 0)

	count, err := f.stock.CreateCount(ctx, manager, dto.CreateStockCountRequest{Name: "Marzo"})
	require.NoError(t, err)
	require.Len(t, count.Items, 3)

	counted := map[string]int{a: 8, b: 6} // C sin contar
	for _, it := range count.Items {
		if qty, ok := counted[it.ProductID]; ok {
			count, err = f.stock.SetCounted(ctx, manager, count.ID, it.ID, dto.SetCountedRequest{CountedQuantity: qty})
			require.NoError(t, err)
		}
	}

	closed, err := f.stock.CloseCount(ctx, manager, count.ID)
	require.NoError(t, err)
	assert.True(t, closed.Closed)
	require.NotNil(t, closed.ClosedAt)

	assert.Equal(t, 8, f.quantity(t, a))
	assert.Equal(t, 6, f.quantity(t, b))
	assert.Equal(t, 7, f.quantity(t, c))

	var movs []*entity.StockMovement
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		var err error
		movs, err = r.Movements.ListByReference(ctx, "INV-"+count.ID)
		return err
	}))
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.SourceCount, m.Source)
	}

	_, err = f.stock.CloseCount(ctx, manager, count.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.stock.SetCounted(ctx, manager, count.ID, count.Items[0].ID, dto.SetCountedRequest{CountedQuantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestStockCount_ItemInexistente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.product(t, "A", 1, 0)
	count, err := f.stock.CreateCount(ctx, manager, dto.CreateStockCountRequest{Name: "Abril"})
	require.NoError(t, err)

	_, err = f.stock.SetCounted(ctx, manager, count.ID, "nada", dto.SetCountedRequest{CountedQuantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.stock.GetCount(ctx, "nada")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
