package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// LedgerFilter rango de fecha valor (inclusive) y categorías; vacíos = sin filtro.
type LedgerFilter struct {
	Direction  entity.Direction
	From       *time.Time
	To         *time.Time
	Categories []entity.LedgerCategory
	Limit      int
	Offset     int
}

// LedgerRepository asientos de caja: solo inserción y consultas derivadas.
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	// Sum total de montos que cumplen el filtro (ignora Limit/Offset).
	Sum(ctx context.Context, filter LedgerFilter) (decimal.Decimal, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.LedgerEntry, error)
	ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.LedgerEntry, error)
}
