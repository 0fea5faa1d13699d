package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Contact string `json:"contact" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	Note       string `json:"note"`
}

// SetReceivedRequest cantidad efectivamente recibida de una línea.
type SetReceivedRequest struct {
	ReceivedQuantity int `json:"received_quantity" validate:"min=0"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string             `json:"id"`
	Number       string             `json:"number"`
	SupplierID   string             `json:"supplier_id"`
	SupplierName string             `json:"supplier_name"`
	Status       string             `json:"status"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Total        decimal.Decimal    `json:"total"`
	Note         string             `json:"note"`
	CreatedBy    string             `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	ReceivedAt   *time.Time         `json:"received_at,omitempty"`
	InvoicedAt   *time.Time         `json:"invoiced_at,omitempty"`
	Items        []LineItemResponse `json:"items"`
}

// PurchaseListResponse lista paginada de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
