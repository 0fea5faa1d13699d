package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName  string `json:"customer_name" validate:"max=200"`
	CustomerPhone string `json:"customer_phone" validate:"max=50"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card cheque transfer mobile"`
	Note          string `json:"note"`
}

// AddLineItemRequest línea nueva (venta o compra). Sin unit_price se usa el precio del catálogo.
type AddLineItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdateLineItemRequest cambio de cantidad/precio de una línea.
type UpdateLineItemRequest struct {
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// FinalizeSaleRequest monto recibido; vacío = pago completo.
type FinalizeSaleRequest struct {
	AmountReceived *decimal.Decimal `json:"amount_received,omitempty"`
}

// RecordPaymentRequest abono a una venta con saldo.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// LineItemResponse salida de una línea.
type LineItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int             `json:"quantity"`
	ReceivedQuantity *int            `json:"received_quantity,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	OriginalPrice    decimal.Decimal `json:"original_price"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Total            decimal.Decimal `json:"total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Outstanding   decimal.Decimal    `json:"outstanding"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Total         decimal.Decimal    `json:"total"`
	Note          string             `json:"note"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	FinalizedAt   *time.Time         `json:"finalized_at,omitempty"`
	Items         []LineItemResponse `json:"items"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
