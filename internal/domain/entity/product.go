package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo de la tienda.
// Quantity es la caché de existencias: solo cambia mediante asientos del libro de stock.
type Product struct {
	ID               string
	SKU              string // código único
	Name             string
	Description      string
	Category         string
	Price            decimal.Decimal // precio de venta
	Cost             decimal.Decimal // último precio de compra recibido
	Quantity         int
	ReorderThreshold int // umbral de alerta
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsCritical indica si la existencia está en o por debajo del umbral de alerta.
func (p *Product) IsCritical() bool {
	return p.Quantity <= p.ReorderThreshold
}

// StockValue valor de la existencia a costo.
func (p *Product) StockValue() decimal.Decimal {
	return p.Cost.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
