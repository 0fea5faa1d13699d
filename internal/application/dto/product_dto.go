package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialQuantity se asienta como entrada manual.
type CreateProductRequest struct {
	SKU              string           `json:"sku" validate:"required,min=1,max=100"`
	Name             string           `json:"name" validate:"required,min=1,max=200"`
	Description      string           `json:"description"`
	Category         string           `json:"category" validate:"max=100"`
	Price            decimal.Decimal  `json:"price"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	ReorderThreshold int              `json:"reorder_threshold" validate:"min=0"`
	InitialQuantity  int              `json:"initial_quantity" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Quantity).
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	Category         *string          `json:"category" validate:"omitempty,max=100"`
	Price            *decimal.Decimal `json:"price"`
	ReorderThreshold *int             `json:"reorder_threshold" validate:"omitempty,min=0"`
	Active           *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Price            decimal.Decimal `json:"price"`
	Cost             decimal.Decimal `json:"cost"`
	Quantity         int             `json:"quantity"`
	ReorderThreshold int             `json:"reorder_threshold"`
	Critical         bool            `json:"critical"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
