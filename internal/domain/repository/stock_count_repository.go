package repository

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// StockCountRepository tomas físicas de inventario.
type StockCountRepository interface {
	Create(ctx context.Context, count *entity.StockCount) error
	GetByID(ctx context.Context, id string) (*entity.StockCount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error)
	// Save persiste el estado de cierre y las cantidades contadas.
	Save(ctx context.Context, count *entity.StockCount) error
}
