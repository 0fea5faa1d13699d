package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// Budget presupuesto por período sobre un conjunto de categorías.
type Budget struct {
	ID         string
	Name       string
	Planned    decimal.Decimal
	From       time.Time
	To         time.Time
	Categories []LedgerCategory
	CreatedBy  string
	CreatedAt  time.Time
}

// NewBudget valida y construye un presupuesto.
func NewBudget(name string, planned decimal.Decimal, from, to time.Time, categories []LedgerCategory, actor string, now time.Time) (*Budget, error) {
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	if planned.IsNegative() {
		return nil, domain.Invalid("planned", "no puede ser negativo")
	}
	if err := CheckMoney("planned", planned); err != nil {
		return nil, err
	}
	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil, domain.Invalid("period", "la fecha final es anterior a la inicial")
	}
	if len(categories) == 0 {
		return nil, domain.Invalid("categories", "al menos una categoría")
	}
	for _, c := range categories {
		if !c.Valid() {
			return nil, domain.Invalid("categories", "categoría desconocida: "+string(c))
		}
	}
	return &Budget{
		ID:         uuid.New().String(),
		Name:       name,
		Planned:    planned,
		From:       from,
		To:         to,
		Categories: categories,
		CreatedBy:  actor,
		CreatedAt:  now,
	}, nil
}

// BudgetProgress ejecución de un presupuesto.
type BudgetProgress struct {
	Realized    decimal.Decimal
	Variance    decimal.Decimal // planeado - realizado
	PercentUsed decimal.Decimal // realizado / planeado * 100
}

// Progress calcula la ejecución dado el monto realizado.
func (b *Budget) Progress(realized decimal.Decimal) BudgetProgress {
	pct := decimal.Zero
	if !b.Planned.IsZero() {
		pct = realized.Div(b.Planned).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return BudgetProgress{
		Realized:    realized,
		Variance:    b.Planned.Sub(realized),
		PercentUsed: pct,
	}
}
