package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashKind tipo de movimiento de la caja física.
type CashKind string

const (
	CashOpen       CashKind = "open"
	CashClose      CashKind = "close"
	CashTopUp      CashKind = "top_up"
	CashWithdrawal CashKind = "withdrawal"
)

// Valid indica si el tipo es conocido.
func (k CashKind) Valid() bool {
	switch k {
	case CashOpen, CashClose, CashTopUp, CashWithdrawal:
		return true
	}
	return false
}

// CashMovement movimiento de la caja con saldo antes/después.
type CashMovement struct {
	ID            string
	Kind          CashKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Reason        string
	LedgerEntryID *string // egreso generado por retiro o cierre
	CreatedBy     string
	CreatedAt     time.Time
}

// Effect variación del saldo de caja que produce el movimiento.
// Apertura fija el saldo al monto contado; cierre y retiro lo reducen.
func (k CashKind) Effect(before, amount decimal.Decimal) decimal.Decimal {
	switch k {
	case CashOpen:
		return amount
	case CashTopUp:
		return before.Add(amount)
	case CashWithdrawal, CashClose:
		return before.Sub(amount)
	}
	return before
}
