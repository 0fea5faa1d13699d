package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjustments.
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int    `json:"delta"`
	Source    string `json:"source" validate:"omitempty,oneof=manual return loss"`
	Reason    string `json:"reason" validate:"max=500"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Kind           string    `json:"kind"`
	Source         string    `json:"source"`
	Delta          int       `json:"delta"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reference      string    `json:"reference"`
	Reason         string    `json:"reason"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateStockCountRequest body para abrir una toma física.
type CreateStockCountRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

// SetCountedRequest cantidad contada de un ítem.
type SetCountedRequest struct {
	CountedQuantity int `json:"counted_quantity" validate:"min=0"`
}

// StockCountItemResponse ítem de una toma física.
type StockCountItemResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	SystemQuantity  int    `json:"system_quantity"`
	CountedQuantity *int   `json:"counted_quantity"`
	Difference      int    `json:"difference"`
}

// StockCountResponse salida de una toma física.
type StockCountResponse struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Closed      bool                     `json:"closed"`
	ClosedAt    *time.Time               `json:"closed_at,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	Items       []StockCountItemResponse `json:"items"`
}

// ReorderSuggestionDTO producto en o bajo su umbral de alerta con la cantidad sugerida de pedido.
type ReorderSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int             `json:"current_stock"`
	ReorderThreshold   int             `json:"reorder_threshold"`
	IdealStock         int             `json:"ideal_stock"`         // umbral * 1.5
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // ideal - actual
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
}
