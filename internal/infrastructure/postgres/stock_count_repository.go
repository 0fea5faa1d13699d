package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo tomas físicas de inventario (stock_counts + stock_count_items).
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create persiste la toma con la foto de existencias de cada ítem.
func (r *StockCountRepo) Create(ctx context.Context, c *entity.StockCount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_counts (id, name, description, closed, closed_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Description, c.Closed, c.ClosedAt, c.CreatedBy, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock count: %w", err)
	}
	for i, it := range c.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_count_items (id, count_id, product_id, product_name, system_quantity, counted_quantity, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, c.ID, it.ProductID, it.ProductName, it.SystemQuantity, it.CountedQuantity, i)
		if err != nil {
			return fmt.Errorf("insert stock count item: %w", err)
		}
	}
	return nil
}

func (r *StockCountRepo) get(ctx context.Context, query, id string) (*entity.StockCount, error) {
	var c entity.StockCount
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.Closed, &c.ClosedAt, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, count_id, product_id, product_name, system_quantity, counted_quantity
		FROM stock_count_items WHERE count_id = $1 ORDER BY position`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list stock count items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockCountItem
		if err := rows.Scan(&it.ID, &it.CountID, &it.ProductID, &it.ProductName, &it.SystemQuantity, &it.CountedQuantity); err != nil {
			return nil, fmt.Errorf("scan stock count item: %w", err)
		}
		c.Items = append(c.Items, &it)
	}
	return &c, rows.Err()
}

// GetByID obtiene la toma con sus ítems.
func (r *StockCountRepo) GetByID(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT id, name, description, closed, closed_at, created_by, created_at FROM stock_counts WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera.
func (r *StockCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.get(ctx, `SELECT id, name, description, closed, closed_at, created_by, created_at FROM stock_counts WHERE id = $1 FOR UPDATE`, id)
}

// Save persiste cierre y cantidades contadas.
func (r *StockCountRepo) Save(ctx context.Context, c *entity.StockCount) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock_counts SET closed = $2, closed_at = $3 WHERE id = $1`, c.ID, c.Closed, c.ClosedAt)
	if err != nil {
		return fmt.Errorf("update stock count: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, it := range c.Items {
		if _, err := r.q.Exec(ctx, `UPDATE stock_count_items SET counted_quantity = $2 WHERE id = $1`, it.ID, it.CountedQuantity); err != nil {
			return fmt.Errorf("update stock count item: %w", err)
		}
	}
	return nil
}
