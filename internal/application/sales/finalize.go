package sales

import (
	"context"
	"time"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/events"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// Finalize cierra la venta en una sola transacción:
//  1. bloquea la venta y verifica DRAFT con al menos una línea
//  2. asienta -cantidad por línea en el libro de stock (cualquier faltante revierte todo)
//  3. recalcula totales y registra un ingreso por el total
//  4. marca FINALIZED con el estado de pago
//
// Una segunda llamada devuelve InvalidTransitionError sin volver a asentar.
func (uc *SaleUseCase) Finalize(ctx context.Context, actor access.Actor, saleID string, in dto.FinalizeSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SaleFinalize); err != nil {
		return nil, err
	}
	started := time.Now()
	var (
		sale     *entity.Sale
		postings []*inventory.Posting
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if err := sale.CanFinalize(); err != nil {
			return err
		}
		inputs := make([]inventory.PostInput, 0, len(sale.Items))
		for _, item := range sale.Items {
			inputs = append(inputs, inventory.PostInput{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				Source:    entity.SourceSale,
				Actor:     actor.UserID,
				Reference: sale.Number,
				Reason:    "Venta " + sale.Number,
				SaleID:    &sale.ID,
			})
		}
		postings, err = uc.ledger.PostAll(ctx, r, inputs)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := sale.MarkFinalized(in.AmountReceived, now); err != nil {
			return err
		}
		if sale.Total.IsPositive() {
			entry, err := entity.NewLedgerEntry(entity.Inflow, sale.Total, entity.CategorySale,
				"Venta "+sale.Number, &sale.ID, nil, actor.UserID, now, now)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, entry); err != nil {
				return err
			}
		}
		return r.Sales.Save(ctx, sale)
	})
	uc.hooks.Observe("sale.finalize", started, err)
	if err != nil {
		uc.hooks.Log.Warn().Err(err).Str("sale_id", saleID).Str("actor", actor.UserID).Msg("finalizar venta rechazado")
		return nil, err
	}
	uc.hooks.Log.Info().Str("sale_id", sale.ID).Str("number", sale.Number).Str("total", sale.Total.String()).Msg("venta finalizada")

	evts := []events.Event{{
		Type:      events.SaleFinalized,
		Level:     events.LevelSuccess,
		Title:     "Nueva venta " + sale.Number,
		Reference: sale.Number,
		Data: map[string]string{
			"sale_id":        sale.ID,
			"total":          sale.Total.StringFixed(2),
			"payment_status": string(sale.PaymentStatus),
			"customer":       sale.CustomerName,
		},
		OccurredAt: *sale.FinalizedAt,
	}}
	evts = append(evts, inventory.CriticalEvents(postings)...)
	uc.hooks.Emit(ctx, evts...)
	return toSaleResponse(sale), nil
}

// RecordPayment abona a una venta finalizada con saldo pendiente. El ingreso por el total
// ya quedó registrado al finalizar; aquí solo avanza el estado de pago.
func (uc *SaleUseCase) RecordPayment(ctx context.Context, actor access.Actor, saleID string, in dto.RecordPaymentRequest) (*dto.SaleResponse, error) {
	if err := uc.policy.Authorize(actor, access.SalePayment); err != nil {
		return nil, err
	}
	started := time.Now()
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
		if err := sale.RegisterPayment(in.Amount, uc.now()); err != nil {
			return err
		}
		return r.Sales.Save(ctx, sale)
	})
	uc.hooks.Observe("sale.payment", started, err)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}
