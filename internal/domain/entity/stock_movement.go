package entity

import "time"

// MovementKind se deriva del signo del delta.
type MovementKind string

const (
	MovementIn         MovementKind = "IN"
	MovementOut        MovementKind = "OUT"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// MovementSource origen del asiento de stock.
type MovementSource string

const (
	SourceSale     MovementSource = "sale"
	SourcePurchase MovementSource = "purchase"
	SourceManual   MovementSource = "manual"
	SourceCount    MovementSource = "count"
	SourceReturn   MovementSource = "return"
	SourceLoss     MovementSource = "loss"
)

// Valid indica si el origen es conocido.
func (s MovementSource) Valid() bool {
	switch s {
	case SourceSale, SourcePurchase, SourceManual, SourceCount, SourceReturn, SourceLoss:
		return true
	}
	return false
}

// StockMovement registro inmutable de un asiento de stock. Nunca se actualiza ni se borra.
type StockMovement struct {
	ID             string
	ProductID      string
	Kind           MovementKind
	Source         MovementSource
	Delta          int // con signo
	QuantityBefore int
	QuantityAfter  int
	Reference      string // número de venta/compra, INV-<id>, etc.
	Reason         string
	SaleID         *string
	PurchaseID     *string
	CreatedBy      string
	CreatedAt      time.Time
}
