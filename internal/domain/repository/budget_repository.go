package repository

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// BudgetRepository define el puerto de persistencia para Budget.
type BudgetRepository interface {
	Create(ctx context.Context, budget *entity.Budget) error
	GetByID(ctx context.Context, id string) (*entity.Budget, error)
	List(ctx context.Context) ([]*entity.Budget, error)
}
