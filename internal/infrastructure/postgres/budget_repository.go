package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.BudgetRepository = (*BudgetRepo)(nil)

const budgetColumns = `id, name, planned, date_from, date_to, categories, created_by, created_at`

// BudgetRepo presupuestos. La ejecución no se guarda: se calcula desde el libro.
type BudgetRepo struct {
	q Querier
}

// NewBudgetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBudgetRepository(q Querier) *BudgetRepo {
	return &BudgetRepo{q: q}
}

func scanBudget(row pgx.Row) (*entity.Budget, error) {
	var (
		b    entity.Budget
		cats []string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Planned, &b.From, &b.To, &cats, &b.CreatedBy, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Categories = make([]entity.LedgerCategory, len(cats))
	for i, c := range cats {
		b.Categories[i] = entity.LedgerCategory(c)
	}
	return &b, nil
}

// Create persiste un presupuesto.
func (r *BudgetRepo) Create(ctx context.Context, b *entity.Budget) error {
	cats := make([]string, len(b.Categories))
	for i, c := range b.Categories {
		cats[i] = string(c)
	}
	_, err := r.q.Exec(ctx, `INSERT INTO budgets (`+budgetColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Name, b.Planned, b.From, b.To, cats, b.CreatedBy, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

// GetByID obtiene un presupuesto.
func (r *BudgetRepo) GetByID(ctx context.Context, id string) (*entity.Budget, error) {
	b, err := scanBudget(r.q.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// List presupuestos, los más recientes primero.
func (r *BudgetRepo) List(ctx context.Context) ([]*entity.Budget, error) {
	rows, err := r.q.Query(ctx, `SELECT `+budgetColumns+` FROM budgets ORDER BY date_from DESC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
