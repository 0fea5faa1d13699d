package repository

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// PurchaseRepository persistencia del agregado Purchase (cabecera + líneas).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	Save(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Purchase, error)
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}
