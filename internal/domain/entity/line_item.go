package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// LineItem línea de una venta o compra. Un solo ítem por (orden, producto).
type LineItem struct {
	ID               string
	OrderID          string
	ProductID        string
	ProductName      string
	Quantity         int
	ReceivedQuantity *int            // solo compras; nil = se recibe lo pedido
	UnitPrice        decimal.Decimal // precio aplicado
	OriginalPrice    decimal.Decimal // precio de catálogo al momento de agregar (ventas)
	Subtotal         decimal.Decimal
	Total            decimal.Decimal // sin impuestos: igual a Subtotal
}

func newLineItem(orderID string, p *Product, qty int, unitPrice decimal.Decimal) (*LineItem, error) {
	if err := checkLine(qty, unitPrice); err != nil {
		return nil, err
	}
	item := &LineItem{
		ID:            uuid.New().String(),
		OrderID:       orderID,
		ProductID:     p.ID,
		ProductName:   p.Name,
		Quantity:      qty,
		UnitPrice:     unitPrice,
		OriginalPrice: p.Price,
	}
	item.recompute()
	return item, nil
}

func checkLine(qty int, unitPrice decimal.Decimal) error {
	if qty <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if unitPrice.IsNegative() {
		return domain.Invalid("unit_price", "no puede ser negativo")
	}
	return CheckMoney("unit_price", unitPrice)
}

func (i *LineItem) recompute() {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	i.Total = i.Subtotal
}

// Discount rebaja unitaria respecto del precio de catálogo; cero si no hubo rebaja.
func (i *LineItem) Discount() decimal.Decimal {
	if i.OriginalPrice.GreaterThan(i.UnitPrice) {
		return i.OriginalPrice.Sub(i.UnitPrice)
	}
	return decimal.Zero
}

// DiscountPercent rebaja en porcentaje del precio de catálogo, redondeada a 2 decimales.
func (i *LineItem) DiscountPercent() decimal.Decimal {
	d := i.Discount()
	if d.IsZero() || !i.OriginalPrice.IsPositive() {
		return decimal.Zero
	}
	return d.Div(i.OriginalPrice).Mul(hundred).Round(2)
}

// QuantityToReceive cantidad que se asienta al recibir: la recibida si se registró, si no la pedida.
func (i *LineItem) QuantityToReceive() int {
	if i.ReceivedQuantity != nil {
		return *i.ReceivedQuantity
	}
	return i.Quantity
}

// sumLines recalcula subtotal y total desde las líneas actuales (nunca incremental).
func sumLines(items []*LineItem) (subtotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, it := range items {
		it.recompute()
		subtotal = subtotal.Add(it.Subtotal)
	}
	return subtotal, subtotal
}

func findLine(items []*LineItem, itemID string) (int, *LineItem) {
	for i, it := range items {
		if it.ID == itemID {
			return i, it
		}
	}
	return -1, nil
}

func hasProduct(items []*LineItem, productID string) bool {
	for _, it := range items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
