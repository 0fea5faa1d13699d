// Package sales casos de uso de la venta de mostrador: creación con número, líneas,
// finalización atómica (stock + caja + estado) y abonos.
package sales

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

// SaleUseCase orquesta el agregado Sale.
type SaleUseCase struct {
	tx     repository.TxRunner
	ledger *inventory.StockLedger
	policy access.Policy
	hooks  events.Hooks
	now    func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx repository.TxRunner, ledger *inventory.StockLedger, policy access.Policy, hooks events.Hooks) *SaleUseCase {
	return &SaleUseCase{tx: tx, ledger: ledger, policy: policy, hooks: hooks, now: time.Now}
}

// WithClock reemplaza el reloj (fecha del número de venta).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// Create abre una venta en borrador con número V{AAAAMMDD}{NNNN} asignado en la misma transacción.
func (uc *SaleUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SaleCreate); err != nil {
		return nil, err
	}
	now := uc.now()
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		number, err := numbering.Next(ctx, r.Locks, r.Sales, entity.SaleLetter, now)
		if err != nil {
			return err
		}
		sale, err = entity.NewSale(number, in.CustomerName, in.CustomerPhone, entity.PaymentMethod(in.PaymentMethod), in.Note, actor.UserID, now)
		if err != nil {
			return err
		}
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.hooks.Log.Info().Str("sale_id", sale.ID).Str("number", sale.Number).Str("actor", actor.UserID).Msg("venta creada")
	return toSaleResponse(sale), nil
}

// Get obtiene una venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, limit, offset int) (*dto.SaleListResponse, error) {
	var list []*entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Sales.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// AddItem agrega una línea; la existencia se compara como chequeo rápido (sin bloqueo).
func (uc *SaleUseCase) AddItem(ctx context.Context, actor access.Actor, saleID string, in dto.AddLineItemRequest) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SaleEdit); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, saleID, func(r repository.Repos, sale *entity.Sale) error {
		p, err := activeProduct(ctx, r, in.ProductID)
		if err != nil {
			return err
		}
		_, err = sale.AddItem(p, in.Quantity, in.UnitPrice)
		return err
	})
}

// UpdateItem cambia cantidad y precio de una línea.
func (uc *SaleUseCase) UpdateItem(ctx context.Context, actor access.Actor, saleID, itemID string, in dto.UpdateLineItemRequest) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SaleEdit); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, saleID, func(r repository.Repos, sale *entity.Sale) error {
		item := sale.Item(itemID)
		if item == nil {
			return domain.ErrNotFound
		}
		p, err := r.Products.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		return sale.UpdateItem(itemID, p, in.Quantity, in.UnitPrice)
	})
}

// RemoveItem elimina una línea.
func (uc *SaleUseCase) RemoveItem(ctx context.Context, actor access.Actor, saleID, itemID string) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SaleEdit); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, saleID, func(_ repository.Repos, sale *entity.Sale) error {
		return sale.RemoveItem(itemID)
	})
}

// Delete elimina una venta en DRAFT con sus líneas. Finalizada devuelve InvalidTransitionError.
func (uc *SaleUseCase) Delete(ctx context.Context, actor access.Actor, saleID string) error {
	if err := uc.policy.Authorize(actor, access.SaleEdit); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := sale.CanDelete(); err != nil {
			return err
		}
		return r.Sales.Delete(ctx, sale.ID)
	})
	if err != nil {
		return err
	}
	uc.hooks.Log.Info().Str("sale_id", saleID).Str("actor", actor.UserID).Msg("borrador de venta eliminado")
	return nil
}

// mutate carga la venta bloqueada, aplica fn (que recalcula totales) y persiste.
func (uc *SaleUseCase) mutate(ctx context.Context, saleID string, fn func(r repository.Repos, sale *entity.Sale) error) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := fn(r, sale); err != nil {
			return err
		}
		sale.UpdatedAt = uc.now()
		return r.Sales.Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

func activeProduct(ctx context.Context, r repository.Repos, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	p, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !p.Active {
		return nil, domain.Invalid("product_id", "producto inactivo")
	}
	return p, nil
}
