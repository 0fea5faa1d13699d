// Package purchasing casos de uso de proveedores y órdenes de compra:
// DRAFT -> ORDERED -> RECEIVED (entra stock) -> INVOICED (sale dinero).
package purchasing

import (
	"context"
	"time"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/application/numbering"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// PurchaseUseCase orquesta el agregado Purchase.
type PurchaseUseCase struct {
	tx     repository.TxRunner
	ledger *inventory.StockLedger
	policy access.Policy
	hooks  events.Hooks
	now    func() time.Time
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(tx repository.TxRunner, ledger *inventory.StockLedger, policy access.Policy, hooks events.Hooks) *PurchaseUseCase {
	return &PurchaseUseCase{tx: tx, ledger: ledger, policy: policy, hooks: hooks, now: time.Now}
}

// WithClock reemplaza el reloj (fecha del número de compra).
func (uc *PurchaseUseCase) WithClock(now func() time.Time) *PurchaseUseCase {
	uc.now = now
	return uc
}

// Create abre una compra en borrador con número A{AAAAMMDD}{NNNN}.
func (uc *PurchaseUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	now := uc.now()
	var purchase *entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		supplier, err := r.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}
		if !supplier.Active {
			return domain.Invalid("supplier_id", "proveedor inactivo")
		}
		number, err := numbering.Next(ctx, r.Locks, r.Purchases, entity.PurchaseLetter, now)
		if err != nil {
			return err
		}
		purchase, err = entity.NewPurchase(number, supplier, in.Note, actor.UserID, now)
		if err != nil {
			return err
		}
		return r.Purchases.Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// Get obtiene una compra con sus líneas.
func (uc *PurchaseUseCase) Get(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	var purchase *entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		purchase, err = r.Purchases.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(purchase), nil
}

// List lista compras, más recientes primero.
func (uc *PurchaseUseCase) List(ctx context.Context, limit, offset int) (*dto.PurchaseListResponse, error) {
	var list []*entity.Purchase
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Purchases.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// AddItem agrega una línea. Sin unit_price se usa el costo vigente del producto.
func (uc *PurchaseUseCase) AddItem(ctx context.Context, actor access.Actor, purchaseID string, in dto.AddLineItemRequest) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, purchaseID, func(r repository.Repos, o *entity.Purchase) error {
		if in.ProductID == "" {
			return domain.Invalid("product_id", "requerido")
		}
		p, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		_, err = o.AddItem(p, in.Quantity, in.UnitPrice)
		return err
	})
}

// UpdateItem cambia cantidad y precio de una línea.
func (uc *PurchaseUseCase) UpdateItem(ctx context.Context, actor access.Actor, purchaseID, itemID string, in dto.UpdateLineItemRequest) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, purchaseID, func(_ repository.Repos, o *entity.Purchase) error {
		return o.UpdateItem(itemID, in.Quantity, in.UnitPrice)
	})
}

// RemoveItem elimina una línea.
func (uc *PurchaseUseCase) RemoveItem(ctx context.Context, actor access.Actor, purchaseID, itemID string) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, purchaseID, func(_ repository.Repos, o *entity.Purchase) error {
		return o.RemoveItem(itemID)
	})
}

// Delete elimina una compra en DRAFT con sus líneas.
func (uc *PurchaseUseCase) Delete(ctx context.Context, actor access.Actor, purchaseID string) error {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		o, err := r.Purchases.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := o.CanDelete(); err != nil {
			return err
		}
		return r.Purchases.Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}
	uc.hooks.Log.Info().Str("purchase_id", purchaseID).Str("actor", actor.UserID).Msg("borrador de compra eliminado")
	return nil
}

// SetReceivedQuantity registra lo efectivamente recibido de una línea.
func (uc *PurchaseUseCase) SetReceivedQuantity(ctx context.Context, actor access.Actor, purchaseID, itemID string, in dto.SetReceivedRequest) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseReceive); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, purchaseID, func(_ repository.Repos, o *entity.Purchase) error {
		return o.SetReceivedQuantity(itemID, in.ReceivedQuantity, uc.now())
	})
}

// Place envía la orden al proveedor (DRAFT -> ORDERED).
func (uc *PurchaseUseCase) Place(ctx context.Context, actor access.Actor, purchaseID string) (*dto.PurchaseResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	started := time.Now()
	out, err := uc.mutate(ctx, purchaseID, func(_ repository.Repos, o *entity.Purchase) error {
		return o.Place(uc.now())
	})
	uc.hooks.Observe("purchase.place", started, err)
	return out, err
}

func (uc *PurchaseUseCase) mutate(ctx context.Context, purchaseID string, fn func(r repository.Repos, o *entity.Purchase) error) (*dto.PurchaseResponse, error) {
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
		if err := fn(r, purchase); err != nil {
			return err
		}
		purchase.UpdatedAt = uc.now()
		return r.Purchases.Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}
