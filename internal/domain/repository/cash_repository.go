package repository

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// CashRepository movimientos de la caja física.
type CashRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	// Last último movimiento o nil si la caja nunca se abrió.
	Last(ctx context.Context) (*entity.CashMovement, error)
	List(ctx context.Context, limit, offset int) ([]*entity.CashMovement, error)
}
