package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

var (
	admin   = access.Actor{UserID: "u-admin", Role: entity.RoleAdmin}
	cashier = access.Actor{UserID: "u-caja", Role: entity.RoleCashier}
)

func newCatalog() *catalog.ProductUseCase {
	return catalog.NewProductUseCase(memory.New(), inventory.NewStockLedger(), access.DefaultPolicy())
}

func TestCreate_ExistenciaInicialConMovimiento(t *testing.T) {
	store := memory.New()
	uc := catalog.NewProductUseCase(store, inventory.NewStockLedger(), access.DefaultPolicy())
	ctx := context.Background()

	p, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: " CAF-01 ", Name: "Café", Price: decimal.NewFromInt(8), InitialQuantity: 12})
	require.NoError(t, err)
	assert.Equal(t, "CAF-01", p.SKU)
	assert.Equal(t, 12, p.Quantity)
	assert.True(t, p.Active)

	var movs []*entity.StockMovement
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		var err error
		movs, err = r.Movements.ListByProduct(ctx, p.ID, 0, 0)
		return err
	}))
	require.Len(t, movs, 1)
	assert.Equal(t, entity.SourceManual, movs[0].Source)
	assert.Equal(t, 0, movs[0].QuantityBefore)
	assert.Equal(t, 12, movs[0].QuantityAfter)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()
	_, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "X", Name: "X"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "X", Name: "Otro"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestCreate_Validaciones(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "X", Name: "X", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "", Name: "X"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "Z", Name: "Z", Price: decimal.RequireFromString("9.999")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "precio con 3 decimales")

	_, err = uc.Create(ctx, cashier, dto.CreateProductRequest{SKU: "Y", Name: "Y"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_NoTocaCantidadNiCosto(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()
	cost := decimal.NewFromInt(3)
	p, err := uc.Create(ctx, admin, dto.CreateProductRequest{SKU: "A", Name: "A", Price: decimal.NewFromInt(5), Cost: &cost, InitialQuantity: 4})
	require.NoError(t, err)

	name := "Arroz"
	price := decimal.NewFromInt(6)
	inactive := false
	out, err := uc.Update(ctx, admin, p.ID, dto.UpdateProductRequest{Name: &name, Price: &price, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", out.Name)
	assert.False(t, out.Active)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.True(t, got.Cost.Equal(cost))
	assert.True(t, got.Price.Equal(price))

	_, err = uc.Update(ctx, admin, "nada", dto.UpdateProductRequest{Name: &name})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_FiltrosCriticoYBusqueda(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()
	for _, in := range []dto.CreateProductRequest{
		{SKU: "ARR-1", Name: "Arroz", InitialQuantity: 1, ReorderThreshold: 5},
		{SKU: "AZU-1", Name: "Azúcar", InitialQuantity: 20, ReorderThreshold: 5},
		{SKU: "SAL-1", Name: "Sal", InitialQuantity: 2, ReorderThreshold: 2},
	} {
		_, err := uc.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	critical, err := uc.List(ctx, repository.ProductFilter{OnlyCritical: true})
	require.NoError(t, err)
	require.Len(t, critical.Items, 2)
	assert.Equal(t, "Arroz", critical.Items[0].Name)
	assert.True(t, critical.Items[0].Critical)

	found, err := uc.List(ctx, repository.ProductFilter{Search: "azu"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "AZU-1", found.Items[0].SKU)
}
