package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest asiento manual. value_date en formato AAAA-MM-DD; vacío = hoy.
type CreateLedgerEntryRequest struct {
	Direction   string          `json:"direction" validate:"required,oneof=INFLOW OUTFLOW"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description" validate:"max=500"`
	SaleID      *string         `json:"sale_id,omitempty"`
	PurchaseID  *string         `json:"purchase_id,omitempty"`
	ValueDate   string          `json:"value_date" validate:"omitempty,datetime=2006-01-02"`
}

// LedgerEntryResponse salida de un asiento.
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	SaleID      *string         `json:"sale_id,omitempty"`
	PurchaseID  *string         `json:"purchase_id,omitempty"`
	CreatedBy   string          `json:"created_by"`
	ValueDate   time.Time       `json:"value_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerQuery filtros de GET /api/finance/entries.
type LedgerQuery struct {
	Direction string `query:"direction" validate:"omitempty,oneof=INFLOW OUTFLOW"`
	Category  string `query:"category"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `query:"limit" validate:"min=0,max=100"`
	Offset    int    `query:"offset" validate:"min=0"`
}

// PeriodTotals ingresos, egresos y neto de un período.
type PeriodTotals struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// LedgerSummaryResponse saldo acumulado más totales del día y del mes.
type LedgerSummaryResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	Today     PeriodTotals    `json:"today"`
	Month     PeriodTotals    `json:"month"`
	DateLabel string          `json:"date_label"`
}

// CreateBudgetRequest presupuesto por período y categorías.
type CreateBudgetRequest struct {
	Name       string          `json:"name" validate:"required,max=200"`
	Planned    decimal.Decimal `json:"planned"`
	From       string          `json:"from" validate:"required,datetime=2006-01-02"`
	To         string          `json:"to" validate:"required,datetime=2006-01-02"`
	Categories []string        `json:"categories" validate:"required,min=1"`
}

// BudgetResponse presupuesto con su ejecución.
type BudgetResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Planned     decimal.Decimal `json:"planned"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Categories  []string        `json:"categories"`
	Realized    decimal.Decimal `json:"realized"`
	Variance    decimal.Decimal `json:"variance"`
	PercentUsed decimal.Decimal `json:"percent_used"`
}

// CashMovementRequest movimiento de la caja física. category aplica a retiros y cierres.
type CashMovementRequest struct {
	Kind     string          `json:"kind" validate:"required,oneof=open close top_up withdrawal"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason" validate:"max=500"`
	Category string          `json:"category"`
}

// CashMovementResponse salida de un movimiento de caja.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reason        string          `json:"reason"`
	LedgerEntryID *string         `json:"ledger_entry_id,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CashBalanceResponse saldo actual de la caja.
type CashBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
