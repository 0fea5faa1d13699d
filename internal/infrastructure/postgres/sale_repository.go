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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, number, customer_name, customer_phone, payment_method, status, payment_status, amount_paid, subtotal, total, note, created_by, created_at, updated_at, finalized_at`

// SaleRepo persistencia del agregado Sale (cabecera + sale_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.Number, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod, &s.Status, &s.PaymentStatus,
		&s.AmountPaid, &s.Subtotal, &s.Total, &s.Note, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt, &s.FinalizedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta cabecera y líneas. Un número repetido devuelve ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Number, s.CustomerName, s.CustomerPhone, s.PaymentMethod, s.Status, s.PaymentStatus,
		s.AmountPaid, s.Subtotal, s.Total, s.Note, s.CreatedBy, s.CreatedAt, s.UpdatedAt, s.FinalizedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return saleItems.replace(ctx, r.q, s.ID, s.Items)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = saleItems.load(ctx, r.q, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// Save actualiza cabecera y reemplaza las líneas.
func (r *SaleRepo) Save(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET customer_name = $2, customer_phone = $3, payment_method = $4, status = $5, payment_status = $6,
			amount_paid = $7, subtotal = $8, total = $9, note = $10, updated_at = $11, finalized_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.CustomerName, s.CustomerPhone, s.PaymentMethod, s.Status, s.PaymentStatus,
		s.AmountPaid, s.Subtotal, s.Total, s.Note, s.UpdatedAt, s.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return saleItems.replace(ctx, r.q, s.ID, s.Items)
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ventas más recientes primero (sin líneas).
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// LastNumberWithPrefix mayor número con el prefijo o "" si no hay.
func (r *SaleRepo) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(ctx, lastNumberQuery("sales"), prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last sale number: %w", err)
	}
	return number, nil
}
