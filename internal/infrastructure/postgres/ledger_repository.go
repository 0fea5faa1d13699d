package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, direction, amount, category, description, sale_id, purchase_id, created_by, value_date, created_at`

// LedgerRepo asientos del libro de caja (solo inserción).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste un asiento.
func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO ledger_entries (`+ledgerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.Direction, e.Amount, e.Category, e.Description, e.SaleID, e.PurchaseID, e.CreatedBy, e.ValueDate, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.IntegrityError{Reason: "la venta o compra ya tiene un asiento en el libro"}
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// where arma la cláusula WHERE del filtro; devuelve la siguiente posición libre.
func ledgerWhere(f repository.LedgerFilter) (string, []any, int) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	if f.Direction != "" {
		where += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, string(f.Direction))
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND value_date >= $%d::date", pos)
		args = append(args, f.From.Format("2006-01-02"))
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND value_date <= $%d::date", pos)
		args = append(args, f.To.Format("2006-01-02"))
		pos++
	}
	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		where += fmt.Sprintf(" AND category = ANY($%d)", pos)
		args = append(args, cats)
		pos++
	}
	return where, args, pos
}

// List asientos por fecha valor descendente.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	where, args, pos := ledgerWhere(f)
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries` + where + ` ORDER BY value_date DESC, created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return collectLedger(rows)
}

// Sum total del filtro; 0 si no hay asientos.
func (r *LedgerRepo) Sum(ctx context.Context, f repository.LedgerFilter) (decimal.Decimal, error) {
	where, args, _ := ledgerWhere(f)
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM ledger_entries`+where, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger entries: %w", err)
	}
	return total, nil
}

// ListBySale asientos vinculados a una venta.
func (r *LedgerRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE sale_id = $1 ORDER BY created_at`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by sale: %w", err)
	}
	return collectLedger(rows)
}

// ListByPurchase asientos vinculados a una compra.
func (r *LedgerRepo) ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+ledgerColumns+` FROM ledger_entries WHERE purchase_id = $1 ORDER BY created_at`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by purchase: %w", err)
	}
	return collectLedger(rows)
}

func collectLedger(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.Direction, &e.Amount, &e.Category, &e.Description, &e.SaleID, &e.PurchaseID,
			&e.CreatedBy, &e.ValueDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
