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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, number, supplier_id, supplier_name, status, subtotal, total, note, created_by, created_at, updated_at, received_at, invoiced_at`

// PurchaseRepo persistencia del agregado Purchase (cabecera + purchase_items).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.Number, &p.SupplierID, &p.SupplierName, &p.Status, &p.Subtotal, &p.Total, &p.Note,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt, &p.ReceivedAt, &p.InvoicedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta cabecera y líneas.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	query := `INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Number, p.SupplierID, p.SupplierName, p.Status, p.Subtotal, p.Total, p.Note,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt, p.ReceivedAt, p.InvoicedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return purchaseItems.replace(ctx, r.q, p.ID, p.Items)
}

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if p.Items, err = purchaseItems.load(ctx, r.q, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID obtiene la compra con sus líneas.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera.
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

// Save actualiza cabecera y reemplaza las líneas.
func (r *PurchaseRepo) Save(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases SET status = $2, subtotal = $3, total = $4, note = $5, updated_at = $6, received_at = $7, invoiced_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Status, p.Subtotal, p.Total, p.Note, p.UpdatedAt, p.ReceivedAt, p.InvoicedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return purchaseItems.replace(ctx, r.q, p.ID, p.Items)
}

// Delete borra la cabecera; las líneas caen por ON DELETE CASCADE.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List compras más recientes primero (sin líneas).
func (r *PurchaseRepo) List(ctx context.Context, limit, offset int) ([]*entity.Purchase, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `SELECT `+purchaseColumns+` FROM purchases ORDER BY created_at DESC, number DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// LastNumberWithPrefix mayor número con el prefijo o "" si no hay.
func (r *PurchaseRepo) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var number string
	err := r.q.QueryRow(ctx, lastNumberQuery("purchases"), prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last purchase number: %w", err)
	}
	return number, nil
}
