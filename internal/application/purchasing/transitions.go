package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// Receive da entrada a la mercancía (solo desde ORDERED), todo o nada:
// por línea asienta +recibido (o lo pedido si no se registró) y fija el costo del producto
// al precio unitario de la línea.
func (uc *PurchaseUseCase) Receive(ctx context.Context, actor access.Actor, purchaseID string) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseReceive); err != nil {
		return nil, err
	}
	started := time.Now()
	var (
		purchase *entity.Purchase
		postings []*inventory.Posting
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		purchase, err = r.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if err := purchase.CanReceive(); err != nil {
			return err
		}
		inputs := make([]inventory.PostInput, 0, len(purchase.Items))
		costs := make(map[string]decimal.Decimal, len(purchase.Items))
		for _, item := range purchase.Items {
			qty := item.QuantityToReceive()
			if qty == 0 {
				continue
			}
			inputs = append(inputs, inventory.PostInput{
				ProductID:  item.ProductID,
				Delta:      qty,
				Source:     entity.SourcePurchase,
				Actor:      actor.UserID,
				Reference:  purchase.Number,
				Reason:     "Compra " + purchase.Number,
				PurchaseID: &purchase.ID,
			})
			costs[item.ProductID] = item.UnitPrice
		}
		postings, err = uc.ledger.PostAll(ctx, r, inputs)
		if err != nil {
			return err
		}
		for _, p := range postings {
			cost := costs[p.Product.ID]
			if err := r.Products.UpdateCost(ctx, p.Product.ID, cost); err != nil {
				return fmt.Errorf("update cost: %w", err)
			}
			p.Product.Cost = cost
		}
		if err := purchase.MarkReceived(uc.now()); err != nil {
			return err
		}
		return r.Purchases.Save(ctx, purchase)
	})
	uc.hooks.Observe("purchase.receive", started, err)
	if err != nil {
		uc.hooks.Log.Warn().Err(err).Str("purchase_id", purchaseID).Str("actor", actor.UserID).Msg("recepción de compra rechazada")
		return nil, err
	}
	uc.hooks.Log.Info().Str("purchase_id", purchase.ID).Str("number", purchase.Number).Int("lines", len(postings)).Msg("compra recibida")
	evts := []events.Event{{
		Type:       events.PurchaseReceived,
		Level:      events.LevelInfo,
		Title:      "Compra recibida " + purchase.Number,
		Reference:  purchase.Number,
		Data:       map[string]string{"purchase_id": purchase.ID, "supplier": purchase.SupplierName},
		OccurredAt: *purchase.ReceivedAt,
	}}
	uc.hooks.Emit(ctx, append(evts, inventory.CriticalEvents(postings)...)...)
	return toPurchaseResponse(purchase), nil
}

// Invoice registra la factura del proveedor (solo desde RECEIVED): un egreso por el total.
func (uc *PurchaseUseCase) Invoice(ctx context.Context, actor access.Actor, purchaseID string) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseInvoice); err != nil {
		return nil, err
	}
	started := time.Now()
	var purchase *entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		purchase, err = r.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if err := purchase.CanInvoice(); err != nil {
			return err
		}
		now := uc.now()
		purchase.RecomputeTotals()
		if purchase.Total.IsPositive() {
			entry, err := entity.NewLedgerEntry(entity.Outflow, purchase.Total, entity.CategoryPurchase,
				fmt.Sprintf("Compra %s - %s", purchase.Number, purchase.SupplierName),
				nil, &purchase.ID, actor.UserID, now, now)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, entry); err != nil {
				return err
			}
		}
		if err := purchase.MarkInvoiced(now); err != nil {
			return err
		}
		return r.Purchases.Save(ctx, purchase)
	})
	uc.hooks.Observe("purchase.invoice", started, err)
	if err != nil {
		return nil, err
	}
	uc.hooks.Emit(ctx, events.Event{
		Type:      events.PurchaseInvoiced,
		Level:     events.LevelInfo,
		Title:     "Compra facturada " + purchase.Number,
		Reference: purchase.Number,
		Data: map[string]string{
			"purchase_id": purchase.ID,
			"total":       purchase.Total.StringFixed(2),
			"supplier":    purchase.SupplierName,
		},
		OccurredAt: *purchase.InvoicedAt,
	})
	return toPurchaseResponse(purchase), nil
}

func toPurchaseResponse(o *entity.Purchase) *dto.PurchaseResponse {
	items := make([]dto.LineItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.LineItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitPrice:        it.UnitPrice,
			OriginalPrice:    it.OriginalPrice,
			Discount:         it.Discount(),
			DiscountPercent:  it.DiscountPercent(),
			Subtotal:         it.Subtotal,
			Total:            it.Total,
		})
	}
	return &dto.PurchaseResponse{
		ID:           o.ID,
		Number:       o.Number,
		SupplierID:   o.SupplierID,
		SupplierName: o.SupplierName,
		Status:       string(o.Status),
		Subtotal:     o.Subtotal,
		Total:        o.Total,
		Note:         o.Note,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		ReceivedAt:   o.ReceivedAt,
		InvoicedAt:   o.InvoicedAt,
		Items:        items,
	}
}
