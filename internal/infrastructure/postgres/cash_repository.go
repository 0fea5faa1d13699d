package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.CashRepository = (*CashRepo)(nil)

const cashColumns = `id, kind, amount, balance_before, balance_after, reason, ledger_entry_id, created_by, created_at`

// CashRepo movimientos de la caja física, ordenados por seq.
type CashRepo struct {
	q Querier
}

// NewCashRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRepository(q Querier) *CashRepo {
	return &CashRepo{q: q}
}

func scanCash(row pgx.Row) (*entity.CashMovement, error) {
	var m entity.CashMovement
	if err := row.Scan(&m.ID, &m.Kind, &m.Amount, &m.BalanceBefore, &m.BalanceAfter, &m.Reason,
		&m.LedgerEntryID, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un movimiento de caja.
func (r *CashRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	_, err := r.q.Exec(ctx, `INSERT INTO cash_movements (`+cashColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.Kind, m.Amount, m.BalanceBefore, m.BalanceAfter, m.Reason, m.LedgerEntryID, m.CreatedBy, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

// Last último movimiento o nil.
func (r *CashRepo) Last(ctx context.Context) (*entity.CashMovement, error) {
	m, err := scanCash(r.q.QueryRow(ctx, `SELECT `+cashColumns+` FROM cash_movements ORDER BY seq DESC LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last cash movement: %w", err)
	}
	return m, nil
}

// List movimientos más recientes primero.
func (r *CashRepo) List(ctx context.Context, limit, offset int) ([]*entity.CashMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `SELECT `+cashColumns+` FROM cash_movements ORDER BY seq DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		m, err := scanCash(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
