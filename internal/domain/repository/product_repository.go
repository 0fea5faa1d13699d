package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update modifica datos de catálogo; no toca Quantity ni Cost.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
}

// ProductFilter filtros de listado.
type ProductFilter struct {
	Search       string
	Category     string
	OnlyActive   bool
	OnlyCritical bool
	Limit        int
	Offset       int
}
