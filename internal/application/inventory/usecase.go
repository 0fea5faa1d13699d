package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// StockUseCase ajustes manuales, consulta de movimientos, tomas físicas y lista de reposición.
type StockUseCase struct {
	tx     repository.TxRunner
	ledger *StockLedger
	policy access.Policy
	hooks  events.Hooks
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx repository.TxRunner, ledger *StockLedger, policy access.Policy, hooks events.Hooks) *StockUseCase {
	return &StockUseCase{tx: tx, ledger: ledger, policy: policy, hooks: hooks}
}

// Adjust registra un asiento manual (ajuste, devolución o pérdida) en su propia transacción.
func (uc *StockUseCase) Adjust(ctx context.Context, actor access.Actor, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	if err := uc.policy.Authorize(actor, access.StockAdjust); err != nil {
		return nil, err
	}
	source := entity.MovementSource(in.Source)
	if source == "" {
		source = entity.SourceManual
	}
	switch source {
	case entity.SourceManual, entity.SourceReturn, entity.SourceLoss:
	default:
		return nil, domain.Invalid("source", "solo manual, return o loss")
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}

	started := time.Now()
	var posting *Posting
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		posting, err = uc.ledger.Post(ctx, r, PostInput{
			ProductID: in.ProductID,
			Delta:     in.Delta,
			Source:    source,
			Actor:     actor.UserID,
			Reason:    in.Reason,
		})
		return err
	})
	uc.hooks.Observe("stock.adjust", started, err)
	if err != nil {
		return nil, err
	}
	uc.hooks.Emit(ctx, CriticalEvents([]*Posting{posting})...)
	return toMovementResponse(posting.Movement), nil
}

// ListMovements historial de movimientos de un producto, más recientes primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) ([]dto.MovementResponse, error) {
	var list []*entity.StockMovement
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		list, err = r.Movements.ListByProduct(ctx, productID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// ReorderList productos activos en o bajo su umbral, con pedido sugerido hasta umbral * 1.5.
func (uc *StockUseCase) ReorderList(ctx context.Context) ([]dto.ReorderSuggestionDTO, error) {
	var products []*entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		products, err = r.Products.List(ctx, repository.ProductFilter{OnlyActive: true, OnlyCritical: true})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReorderSuggestionDTO, 0, len(products))
	for _, p := range products {
		ideal := (p.ReorderThreshold*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.ReorderSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       p.Quantity,
			ReorderThreshold:   p.ReorderThreshold,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(int64(suggested))),
		})
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Kind:           string(m.Kind),
		Source:         string(m.Source),
		Delta:          m.Delta,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reference:      m.Reference,
		Reason:         m.Reason,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
