package repository

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// SaleRepository persistencia del agregado Sale (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera de la venta.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// Save persiste cabecera y sincroniza las líneas con las del agregado.
	Save(ctx context.Context, sale *entity.Sale) error
	// Delete elimina cabecera y líneas; solo para borradores.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	// LastNumberWithPrefix mayor número existente con ese prefijo, "" si no hay.
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}
