package repository

import "context"

// Repos agrupa los repositorios atados a una misma unidad de trabajo.
type Repos struct {
	Products  ProductRepository
	Movements StockMovementRepository
	Sales     SaleRepository
	Purchases PurchaseRepository
	Suppliers SupplierRepository
	Ledger    LedgerRepository
	Budgets   BudgetRepository
	Cash      CashRepository
	Counts    StockCountRepository
	Users     UserRepository
	Locks     Locker
}

// Locker serializa por clave dentro de la transacción (se libera al terminarla).
type Locker interface {
	Lock(ctx context.Context, key string) error
}

// TxRunner ejecuta fn dentro de una transacción: si fn devuelve error nada queda escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
