package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return asConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return asConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// NewRepos arma el juego de repositorios sobre un Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Products:  NewProductRepository(q),
		Movements: NewStockMovementRepository(q),
		Sales:     NewSaleRepository(q),
		Purchases: NewPurchaseRepository(q),
		Suppliers: NewSupplierRepository(q),
		Ledger:    NewLedgerRepository(q),
		Budgets:   NewBudgetRepository(q),
		Cash:      NewCashRepository(q),
		Counts:    NewStockCountRepository(q),
		Users:     NewUserRepository(q),
		Locks:     NewAdvisoryLocker(q),
	}
}

// AdvisoryLocker candado transaccional por clave (pg_advisory_xact_lock); se libera en commit/rollback.
type AdvisoryLocker struct {
	q Querier
}

// NewAdvisoryLocker construye el candado.
func NewAdvisoryLocker(q Querier) *AdvisoryLocker {
	return &AdvisoryLocker{q: q}
}

// Lock bloquea hasta obtener el candado de la clave.
func (l *AdvisoryLocker) Lock(ctx context.Context, key string) error {
	if _, err := l.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return nil
}
