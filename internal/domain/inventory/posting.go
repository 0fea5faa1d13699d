package inventory

import (
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// KindForDelta deriva el tipo de movimiento del signo del delta.
func KindForDelta(delta int) entity.MovementKind {
	switch {
	case delta > 0:
		return entity.MovementIn
	case delta < 0:
		return entity.MovementOut
	default:
		return entity.MovementAdjustment
	}
}

// Apply calcula la nueva existencia del producto (servicio de dominio, sin efectos).
// Nueva = Actual + Delta; si queda negativa devuelve InsufficientStockError.
func Apply(p *entity.Product, delta int) (before, after int, err error) {
	before = p.Quantity
	after = before + delta
	if after < 0 {
		return before, before, &domain.InsufficientStockError{
			ProductID: p.ID,
			Product:   p.Name,
			Available: before,
			Requested: -delta,
		}
	}
	return before, after, nil
}
