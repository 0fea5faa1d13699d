package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// PurchaseStatus estado de una orden de compra.
type PurchaseStatus string

const (
	PurchaseDraft    PurchaseStatus = "DRAFT"
	PurchaseOrdered  PurchaseStatus = "ORDERED"
	PurchaseReceived PurchaseStatus = "RECEIVED"
	PurchaseInvoiced PurchaseStatus = "INVOICED"
)

// CanTransitionTo DRAFT -> ORDERED -> RECEIVED -> INVOICED, sin saltos ni retrocesos.
func (s PurchaseStatus) CanTransitionTo(target PurchaseStatus) bool {
	switch s {
	case PurchaseDraft:
		return target == PurchaseOrdered
	case PurchaseOrdered:
		return target == PurchaseReceived
	case PurchaseReceived:
		return target == PurchaseInvoiced
	}
	return false
}

// PurchaseLetter prefijo de numeración de compras.
const PurchaseLetter = "A"

// Purchase orden de compra a un proveedor.
type Purchase struct {
	ID           string
	Number       string
	SupplierID   string
	SupplierName string
	Status       PurchaseStatus
	Subtotal     decimal.Decimal
	Total        decimal.Decimal
	Note         string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ReceivedAt   *time.Time
	InvoicedAt   *time.Time
	Items        []*LineItem
}

// NewPurchase crea una compra en borrador.
func NewPurchase(number string, supplier *Supplier, note, actor string, now time.Time) (*Purchase, error) {
	if number == "" {
		return nil, domain.Invalid("number", "requerido")
	}
	if supplier == nil {
		return nil, domain.Invalid("supplier_id", "requerido")
	}
	return &Purchase{
		ID:           uuid.New().String(),
		Number:       number,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Status:       PurchaseDraft,
		Subtotal:     decimal.Zero,
		Total:        decimal.Zero,
		Note:         note,
		CreatedBy:    actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (o *Purchase) transitionError(action string) error {
	return &domain.InvalidTransitionError{Entity: "compra " + o.Number, From: string(o.Status), Action: action}
}

// AddItem agrega una línea. Sin unitPrice se usa el costo vigente del producto.
func (o *Purchase) AddItem(p *Product, qty int, unitPrice *decimal.Decimal) (*LineItem, error) {
	if o.Status != PurchaseDraft {
		return nil, o.transitionError("add_item")
	}
	if hasProduct(o.Items, p.ID) {
		return nil, domain.Invalid("product_id", "el producto ya está en la compra")
	}
	price := p.Cost
	if unitPrice != nil {
		price = *unitPrice
	}
	item, err := newLineItem(o.ID, p, qty, price)
	if err != nil {
		return nil, err
	}
	item.OriginalPrice = p.Cost
	o.Items = append(o.Items, item)
	o.RecomputeTotals()
	return item, nil
}

// UpdateItem cambia cantidad y, opcionalmente, precio de una línea.
func (o *Purchase) UpdateItem(itemID string, qty int, unitPrice *decimal.Decimal) error {
	if o.Status != PurchaseDraft {
		return o.transitionError("update_item")
	}
	_, item := findLine(o.Items, itemID)
	if item == nil {
		return domain.ErrNotFound
	}
	price := item.UnitPrice
	if unitPrice != nil {
		price = *unitPrice
	}
	if err := checkLine(qty, price); err != nil {
		return err
	}
	item.Quantity = qty
	item.UnitPrice = price
	o.RecomputeTotals()
	return nil
}

// RemoveItem elimina una línea.
func (o *Purchase) RemoveItem(itemID string) error {
	if o.Status != PurchaseDraft {
		return o.transitionError("remove_item")
	}
	i, item := findLine(o.Items, itemID)
	if item == nil {
		return domain.ErrNotFound
	}
	o.Items = append(o.Items[:i], o.Items[i+1:]...)
	o.RecomputeTotals()
	return nil
}

// SetReceivedQuantity registra lo efectivamente recibido antes de la recepción.
func (o *Purchase) SetReceivedQuantity(itemID string, qty int, now time.Time) error {
	if o.Status != PurchaseDraft && o.Status != PurchaseOrdered {
		return o.transitionError("set_received")
	}
	if qty < 0 {
		return domain.Invalid("received_quantity", "no puede ser negativa")
	}
	_, item := findLine(o.Items, itemID)
	if item == nil {
		return domain.ErrNotFound
	}
	item.ReceivedQuantity = &qty
	o.UpdatedAt = now
	return nil
}

// Item devuelve la línea por ID o nil.
func (o *Purchase) Item(itemID string) *LineItem {
	_, item := findLine(o.Items, itemID)
	return item
}

// RecomputeTotals suma las líneas actuales.
func (o *Purchase) RecomputeTotals() {
	o.Subtotal, o.Total = sumLines(o.Items)
}

// CanDelete solo se eliminan compras en DRAFT.
func (o *Purchase) CanDelete() error {
	if o.Status != PurchaseDraft {
		return o.transitionError("delete")
	}
	return nil
}

// Place envía la orden al proveedor (DRAFT -> ORDERED).
func (o *Purchase) Place(now time.Time) error {
	if !o.Status.CanTransitionTo(PurchaseOrdered) {
		return o.transitionError("place")
	}
	if len(o.Items) == 0 {
		return domain.Invalid("items", "la compra no tiene líneas")
	}
	o.Status = PurchaseOrdered
	o.UpdatedAt = now
	return nil
}

// CanReceive solo desde ORDERED.
func (o *Purchase) CanReceive() error {
	if !o.Status.CanTransitionTo(PurchaseReceived) {
		return o.transitionError("receive")
	}
	return nil
}

// MarkReceived se invoca después de asentar todas las líneas.
func (o *Purchase) MarkReceived(now time.Time) error {
	if err := o.CanReceive(); err != nil {
		return err
	}
	o.RecomputeTotals()
	o.Status = PurchaseReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now
	return nil
}

// CanInvoice solo desde RECEIVED.
func (o *Purchase) CanInvoice() error {
	if !o.Status.CanTransitionTo(PurchaseInvoiced) {
		return o.transitionError("invoice")
	}
	return nil
}

// MarkInvoiced se invoca después de registrar el egreso.
func (o *Purchase) MarkInvoiced(now time.Time) error {
	if err := o.CanInvoice(); err != nil {
		return err
	}
	o.Status = PurchaseInvoiced
	o.InvoicedAt = &now
	o.UpdatedAt = now
	return nil
}
