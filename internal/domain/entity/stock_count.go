package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

// StockCount toma física de inventario.
type StockCount struct {
	ID          string
	Name        string
	Description string
	Closed      bool
	ClosedAt    *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	Items       []*StockCountItem
}

// StockCountItem cantidad del sistema al abrir vs cantidad contada.
type StockCountItem struct {
	ID              string
	CountID         string
	ProductID       string
	ProductName     string
	SystemQuantity  int
	CountedQuantity *int
}

// Difference contado - sistema; cero si no se contó.
func (i *StockCountItem) Difference() int {
	if i.CountedQuantity == nil {
		return 0
	}
	return *i.CountedQuantity - i.SystemQuantity
}

// NewStockCount abre una toma con la foto de existencias de los productos dados.
func NewStockCount(name, description string, products []*Product, actor string, now time.Time) (*StockCount, error) {
	if name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	c := &StockCount{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedBy:   actor,
		CreatedAt:   now,
	}
	for _, p := range products {
		if !p.Active {
			continue
		}
		c.Items = append(c.Items, &StockCountItem{
			ID:             uuid.New().String(),
			CountID:        c.ID,
			ProductID:      p.ID,
			ProductName:    p.Name,
			SystemQuantity: p.Quantity,
		})
	}
	return c, nil
}

// Reference referencia usada en los movimientos generados al cerrar.
func (c *StockCount) Reference() string {
	return "INV-" + c.ID
}

// SetCounted registra la cantidad contada de un ítem.
func (c *StockCount) SetCounted(itemID string, qty int) error {
	if c.Closed {
		return &domain.InvalidTransitionError{Entity: "inventario " + c.Name, From: "closed", Action: "set_counted"}
	}
	if qty < 0 {
		return domain.Invalid("counted_quantity", "no puede ser negativa")
	}
	for _, it := range c.Items {
		if it.ID == itemID {
			it.CountedQuantity = &qty
			return nil
		}
	}
	return domain.ErrNotFound
}

// CanClose solo una vez.
func (c *StockCount) CanClose() error {
	if c.Closed {
		return &domain.InvalidTransitionError{Entity: "inventario " + c.Name, From: "closed", Action: "close"}
	}
	return nil
}

// MarkClosed se invoca después de asentar las diferencias.
func (c *StockCount) MarkClosed(now time.Time) {
	c.Closed = true
	c.ClosedAt = &now
}
