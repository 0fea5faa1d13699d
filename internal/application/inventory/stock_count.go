package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// CreateCount abre una toma física con la existencia actual de todos los productos activos.
func (uc *StockUseCase) CreateCount(ctx context.Context, actor access.Actor, in dto.CreateStockCountRequest) (*dto.StockCountResponse, error) {
	if err := uc.policy.Authorize(actor, access.StockCount); err != nil {
		return nil, err
	}
	var count *entity.StockCount
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		products, err := r.Products.List(ctx, repository.ProductFilter{OnlyActive: true})
		if err != nil {
			return err
		}
		count, err = entity.NewStockCount(in.Name, in.Description, products, actor.UserID, time.Now())
		if err != nil {
			return err
		}
		return r.Counts.Create(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return toStockCountResponse(count), nil
}

// GetCount obtiene una toma física con sus ítems.
func (uc *StockUseCase) GetCount(ctx context.Context, id string) (*dto.StockCountResponse, error) {
	var count *entity.StockCount
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		count, err = r.Counts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if count == nil {
		return nil, domain.ErrNotFound
	}
	return toStockCountResponse(count), nil
}

// SetCounted registra la cantidad contada de un ítem mientras la toma está abierta.
func (uc *StockUseCase) SetCounted(ctx context.Context, actor access.Actor, countID, itemID string, in dto.SetCountedRequest) (*dto.StockCountResponse, error) {
	if err := uc.policy.Authorize(actor, access.StockCount); err != nil {
		return nil, err
	}
	var count *entity.StockCount
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		count, err = r.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if err := count.SetCounted(itemID, in.CountedQuantity); err != nil {
			return err
		}
		return r.Counts.Save(ctx, count)
	})
	if err != nil {
		return nil, err
	}
	return toStockCountResponse(count), nil
}

// CloseCount asienta contado - sistema de cada ítem con diferencia (origen count, referencia INV-<id>)
// y cierra la toma, todo en una transacción.
func (uc *StockUseCase) CloseCount(ctx context.Context, actor access.Actor, countID string) (*dto.StockCountResponse, error) {
	if err := uc.policy.Authorize(actor, access.StockCount); err != nil {
		return nil, err
	}
	started := time.Now()
	var (
		count    *entity.StockCount
		postings []*Posting
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		count, err = r.Counts.GetForUpdate(ctx, countID)
		if err != nil {
			return err
		}
		if count == nil {
			return domain.ErrNotFound
		}
		if err := count.CanClose(); err != nil {
			return err
		}
		var inputs []PostInput
		for _, it := range count.Items {
			diff := it.Difference()
			if diff == 0 {
				continue
			}
			inputs = append(inputs, PostInput{
				ProductID: it.ProductID,
				Delta:     diff,
				Source:    entity.SourceCount,
				Actor:     actor.UserID,
				Reference: count.Reference(),
				Reason:    "Ajuste de inventario: " + count.Name,
			})
		}
		postings, err = uc.ledger.PostAll(ctx, r, inputs)
		if err != nil {
			return err
		}
		count.MarkClosed(time.Now())
		return r.Counts.Save(ctx, count)
	})
	uc.hooks.Observe("stock.count.close", started, err)
	if err != nil {
		return nil, err
	}
	uc.hooks.Log.Info().Str("count_id", count.ID).Int("postings", len(postings)).Str("actor", actor.UserID).Msg("inventario cerrado")
	uc.hooks.Emit(ctx, CriticalEvents(postings)...)
	return toStockCountResponse(count), nil
}

func toStockCountResponse(c *entity.StockCount) *dto.StockCountResponse {
	items := make([]dto.StockCountItemResponse, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, dto.StockCountItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SystemQuantity:  it.SystemQuantity,
			CountedQuantity: it.CountedQuantity,
			Difference:      it.Difference(),
		})
	}
	return &dto.StockCountResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Closed:      c.Closed,
		ClosedAt:    c.ClosedAt,
		CreatedAt:   c.CreatedAt,
		Items:       items,
	}
}
