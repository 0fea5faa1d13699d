package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// PostInput asiento de stock. Delta con signo: + entra, - sale.
type PostInput struct {
	ProductID  string
	Delta      int
	Source     entity.MovementSource
	Actor      string
	Reference  string
	Reason     string
	SaleID     *string
	PurchaseID *string
}

// Posting resultado de un asiento: el movimiento y el producto ya actualizado.
type Posting struct {
	Movement *entity.StockMovement
	Product  *entity.Product
}

// StockLedger único camino para cambiar la existencia de un producto.
// Siempre corre dentro de la transacción del llamador (repos atados a la tx).
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el libro de stock.
func NewStockLedger() *StockLedger {
	return &StockLedger{now: time.Now}
}

// Post bloquea la fila del producto (SELECT FOR UPDATE), valida que la existencia no quede negativa,
// escribe la nueva cantidad y agrega el movimiento con la foto antes/después.
// Si la existencia no alcanza devuelve InsufficientStockError sin escribir nada.
func (l *StockLedger) Post(ctx context.Context, r repository.Repos, in PostInput) (*Posting, error) {
	if !in.Source.Valid() {
		return nil, domain.Invalid("source", "origen desconocido")
	}
	product, err := r.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	before, after, err := inventory.Apply(product, in.Delta)
	if err != nil {
		return nil, err
	}
	if err := r.Products.UpdateQuantity(ctx, product.ID, after); err != nil {
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      product.ID,
		Kind:           inventory.KindForDelta(in.Delta),
		Source:         in.Source,
		Delta:          in.Delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reference:      in.Reference,
		Reason:         in.Reason,
		SaleID:         in.SaleID,
		PurchaseID:     in.PurchaseID,
		CreatedBy:      in.Actor,
		CreatedAt:      l.now(),
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	product.Quantity = after
	return &Posting{Movement: mov, Product: product}, nil
}

// PostAll asienta varias líneas ordenadas por ProductID: dos transacciones concurrentes
// bloquean las filas de producto siempre en el mismo orden. El primer error corta el lote.
func (l *StockLedger) PostAll(ctx context.Context, r repository.Repos, inputs []PostInput) ([]*Posting, error) {
	ordered := slices.Clone(inputs)
	slices.SortStableFunc(ordered, func(a, b PostInput) int {
		return strings.Compare(a.ProductID, b.ProductID)
	})
	postings := make([]*Posting, 0, len(ordered))
	for _, in := range ordered {
		p, err := l.Post(ctx, r, in)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// CriticalEvents un evento por producto que quedó en o bajo su umbral de alerta.
func CriticalEvents(postings []*Posting) []events.Event {
	seen := make(map[string]bool, len(postings))
	var out []events.Event
	for _, p := range postings {
		if p == nil || seen[p.Product.ID] || !p.Product.IsCritical() {
			continue
		}
		seen[p.Product.ID] = true
		out = append(out, events.Event{
			Type:      events.StockCritical,
			Level:     events.LevelWarning,
			Title:     "Stock crítico: " + p.Product.Name,
			Reference: p.Product.SKU,
			Data: map[string]string{
				"product_id": p.Product.ID,
				"quantity":   fmt.Sprint(p.Product.Quantity),
				"threshold":  fmt.Sprint(p.Product.ReorderThreshold),
			},
			OccurredAt: p.Movement.CreatedAt,
		})
	}
	return out
}
