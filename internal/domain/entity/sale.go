package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// SaleStatus estado de una venta.
type SaleStatus string

const (
	SaleDraft     SaleStatus = "DRAFT"
	SaleFinalized SaleStatus = "FINALIZED"
)

// PaymentStatus sub-estado de cobro, independiente del estado de la venta.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayCard     PaymentMethod = "card"
	PayCheque   PaymentMethod = "cheque"
	PayTransfer PaymentMethod = "transfer"
	PayMobile   PaymentMethod = "mobile"
)

// Valid indica si el medio de pago es conocido.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PayCheque, PayTransfer, PayMobile:
		return true
	}
	return false
}

// SaleLetter prefijo de numeración de ventas.
const SaleLetter = "V"

// Sale venta de mostrador. Subtotal y Total son derivados de Items.
type Sale struct {
	ID            string
	Number        string
	CustomerName  string
	CustomerPhone string
	PaymentMethod PaymentMethod
	Status        SaleStatus
	PaymentStatus PaymentStatus
	AmountPaid    decimal.Decimal
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FinalizedAt   *time.Time
	Items         []*LineItem
}

// NewSale crea una venta en borrador con el número ya asignado.
func NewSale(number, customerName, customerPhone string, method PaymentMethod, note, actor string, now time.Time) (*Sale, error) {
	if number == "" {
		return nil, domain.Invalid("number", "requerido")
	}
	if method == "" {
		method = PayCash
	}
	if !method.Valid() {
		return nil, domain.Invalid("payment_method", "medio de pago desconocido")
	}
	return &Sale{
		ID:            uuid.New().String(),
		Number:        number,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		PaymentMethod: method,
		Status:        SaleDraft,
		PaymentStatus: PaymentUnpaid,
		AmountPaid:    decimal.Zero,
		Subtotal:      decimal.Zero,
		Total:         decimal.Zero,
		Note:          note,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *Sale) requireDraft(action string) error {
	if s.Status != SaleDraft {
		return &domain.InvalidTransitionError{Entity: "venta " + s.Number, From: string(s.Status), Action: action}
	}
	return nil
}

// AddItem agrega una línea. Sin unitPrice se usa el precio de catálogo.
// La comparación contra la existencia es un chequeo rápido; el definitivo ocurre al finalizar.
func (s *Sale) AddItem(p *Product, qty int, unitPrice *decimal.Decimal) (*LineItem, error) {
	if err := s.requireDraft("add_item"); err != nil {
		return nil, err
	}
	if hasProduct(s.Items, p.ID) {
		return nil, domain.Invalid("product_id", "el producto ya está en la venta")
	}
	if qty > p.Quantity {
		return nil, domain.Invalid("quantity", "supera la existencia disponible")
	}
	price := p.Price
	if unitPrice != nil {
		price = *unitPrice
	}
	item, err := newLineItem(s.ID, p, qty, price)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, item)
	s.RecomputeTotals()
	return item, nil
}

// UpdateItem cambia cantidad y, opcionalmente, precio de una línea.
func (s *Sale) UpdateItem(itemID string, p *Product, qty int, unitPrice *decimal.Decimal) error {
	if err := s.requireDraft("update_item"); err != nil {
		return err
	}
	_, item := findLine(s.Items, itemID)
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
	if qty > p.Quantity {
		return domain.Invalid("quantity", "supera la existencia disponible")
	}
	item.Quantity = qty
	item.UnitPrice = price
	s.RecomputeTotals()
	return nil
}

// RemoveItem elimina una línea.
func (s *Sale) RemoveItem(itemID string) error {
	if err := s.requireDraft("remove_item"); err != nil {
		return err
	}
	i, item := findLine(s.Items, itemID)
	if item == nil {
		return domain.ErrNotFound
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	s.RecomputeTotals()
	return nil
}

// Item devuelve la línea por ID o nil.
func (s *Sale) Item(itemID string) *LineItem {
	_, item := findLine(s.Items, itemID)
	return item
}

// RecomputeTotals suma las líneas actuales.
func (s *Sale) RecomputeTotals() {
	s.Subtotal, s.Total = sumLines(s.Items)
}

// CanDelete solo se eliminan ventas en DRAFT; una venta finalizada ya asentó stock y caja.
func (s *Sale) CanDelete() error {
	return s.requireDraft("delete")
}

// CanFinalize valida estado y contenido antes de asentar nada.
func (s *Sale) CanFinalize() error {
	if err := s.requireDraft("finalize"); err != nil {
		return err
	}
	if len(s.Items) == 0 {
		return domain.Invalid("items", "la venta no tiene líneas")
	}
	return nil
}

// MarkFinalized cierra la venta. amountReceived nil = pago completo.
func (s *Sale) MarkFinalized(amountReceived *decimal.Decimal, now time.Time) error {
	if err := s.CanFinalize(); err != nil {
		return err
	}
	s.RecomputeTotals()
	paid := s.Total
	if amountReceived != nil {
		if amountReceived.IsNegative() {
			return domain.Invalid("amount_received", "no puede ser negativo")
		}
		if err := CheckMoney("amount_received", *amountReceived); err != nil {
			return err
		}
		paid = decimal.Min(*amountReceived, s.Total)
	}
	s.AmountPaid = paid
	s.refreshPaymentStatus()
	s.Status = SaleFinalized
	s.FinalizedAt = &now
	s.UpdatedAt = now
	return nil
}

// RegisterPayment abona a una venta finalizada con saldo pendiente.
func (s *Sale) RegisterPayment(amount decimal.Decimal, now time.Time) error {
	if s.Status != SaleFinalized || s.PaymentStatus == PaymentPaid {
		return &domain.InvalidTransitionError{Entity: "venta " + s.Number, From: string(s.Status) + "/" + string(s.PaymentStatus), Action: "payment"}
	}
	if !amount.IsPositive() {
		return domain.Invalid("amount", "debe ser mayor que cero")
	}
	if err := CheckMoney("amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(s.Outstanding()) {
		return domain.Invalid("amount", "supera el saldo pendiente")
	}
	s.AmountPaid = s.AmountPaid.Add(amount)
	s.refreshPaymentStatus()
	s.UpdatedAt = now
	return nil
}

// Outstanding saldo pendiente de cobro.
func (s *Sale) Outstanding() decimal.Decimal {
	out := s.Total.Sub(s.AmountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

func (s *Sale) refreshPaymentStatus() {
	switch {
	case !s.AmountPaid.LessThan(s.Total):
		s.PaymentStatus = PaymentPaid
	case s.AmountPaid.IsZero():
		s.PaymentStatus = PaymentUnpaid
	default:
		s.PaymentStatus = PaymentPartial
	}
}
