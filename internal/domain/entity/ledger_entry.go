package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// Direction sentido del movimiento de dinero.
type Direction string

const (
	Inflow  Direction = "INFLOW"
	Outflow Direction = "OUTFLOW"
)

// LedgerEntry asiento inmutable del libro de caja. El saldo siempre se deriva.
type LedgerEntry struct {
	ID          string
	Direction   Direction
	Amount      decimal.Decimal
	Category    LedgerCategory
	Description string
	SaleID      *string
	PurchaseID  *string
	CreatedBy   string
	ValueDate   time.Time // fecha valor (solo día)
	CreatedAt   time.Time
}

// NewLedgerEntry valida y construye un asiento. Vincular una venta o compra fija la categoría.
func NewLedgerEntry(dir Direction, amount decimal.Decimal, category LedgerCategory, description string, saleID, purchaseID *string, actor string, valueDate, now time.Time) (*LedgerEntry, error) {
	if dir != Inflow && dir != Outflow {
		return nil, domain.Invalid("direction", "debe ser INFLOW u OUTFLOW")
	}
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor que cero")
	}
	if err := CheckMoney("amount", amount); err != nil {
		return nil, err
	}
	if saleID != nil && purchaseID != nil {
		return nil, domain.Invalid("reference", "solo puede referenciar una venta o una compra")
	}
	switch {
	case saleID != nil:
		category = CategorySale
	case purchaseID != nil:
		category = CategoryPurchase
	}
	if !category.Valid() {
		return nil, domain.Invalid("category", "categoría desconocida")
	}
	if valueDate.IsZero() {
		valueDate = now
	}
	return &LedgerEntry{
		ID:          uuid.New().String(),
		Direction:   dir,
		Amount:      amount,
		Category:    category,
		Description: description,
		SaleID:      saleID,
		PurchaseID:  purchaseID,
		CreatedBy:   actor,
		ValueDate:   Day(valueDate),
		CreatedAt:   now,
	}, nil
}

// Signed devuelve el monto con signo (+ ingreso, - egreso).
func (e *LedgerEntry) Signed() decimal.Decimal {
	if e.Direction == Outflow {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Day trunca a medianoche en la zona del valor.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
