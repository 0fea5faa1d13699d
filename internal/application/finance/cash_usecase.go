package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

const cashLockKey = "cash"

var cashReasons = map[entity.CashKind]string{
	entity.CashOpen:       "Apertura de caja",
	entity.CashClose:      "Cierre de caja",
	entity.CashTopUp:      "Ingreso a caja",
	entity.CashWithdrawal: "Retiro de caja",
}

// RecordCash registra un movimiento de la caja física con saldo antes/después.
// Retiros y cierres con monto > 0 generan un egreso en el libro en la misma transacción.
func (uc *FinanceUseCase) RecordCash(ctx context.Context, actor access.Actor, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	if err := uc.policy.Authorize(actor, access.CashManage); err != nil {
		return nil, err
	}
	kind := entity.CashKind(in.Kind)
	if !kind.Valid() {
		return nil, domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	if in.Amount.IsNegative() {
		return nil, domain.Invalid("amount", "no puede ser negativo")
	}
	if err := entity.CheckMoney("amount", in.Amount); err != nil {
		return nil, err
	}
	if (kind == entity.CashTopUp || kind == entity.CashWithdrawal) && !in.Amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor que cero")
	}
	category := entity.CategoryOther
	if in.Category != "" {
		category = entity.LedgerCategory(in.Category)
		if !category.Valid() {
			return nil, domain.Invalid("category", "categoría desconocida")
		}
	}
	reason := in.Reason
	if reason == "" {
		reason = cashReasons[kind]
	}

	started := time.Now()
	var mov *entity.CashMovement
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Locks.Lock(ctx, cashLockKey); err != nil {
			return err
		}
		before := decimal.Zero
		last, err := r.Cash.Last(ctx)
		if err != nil {
			return err
		}
		if last != nil {
			before = last.BalanceAfter
		}
		after := kind.Effect(before, in.Amount)
		if after.IsNegative() {
			return domain.Invalid("amount", "el saldo de caja no alcanza: disponible "+before.StringFixed(2))
		}
		now := uc.now()
		mov = &entity.CashMovement{
			ID:            uuid.New().String(),
			Kind:          kind,
			Amount:        in.Amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Reason:        reason,
			CreatedBy:     actor.UserID,
			CreatedAt:     now,
		}
		if (kind == entity.CashWithdrawal || kind == entity.CashClose) && in.Amount.IsPositive() {
			entry, err := entity.NewLedgerEntry(entity.Outflow, in.Amount, category, reason, nil, nil, actor.UserID, now, now)
			if err != nil {
				return err
			}
			if err := r.Ledger.Create(ctx, entry); err != nil {
				return err
			}
			mov.LedgerEntryID = &entry.ID
		}
		return r.Cash.Create(ctx, mov)
	})
	uc.hooks.Observe("cash."+string(kind), started, err)
	if err != nil {
		return nil, err
	}
	return toCashMovementResponse(mov), nil
}

// CashBalance saldo actual de la caja (0 si nunca se abrió).
func (uc *FinanceUseCase) CashBalance(ctx context.Context) (*dto.CashBalanceResponse, error) {
	balance := decimal.Zero
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		last, err := r.Cash.Last(ctx)
		if err != nil {
			return err
		}
		if last != nil {
			balance = last.BalanceAfter
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.CashBalanceResponse{Balance: balance}, nil
}

func toCashMovementResponse(m *entity.CashMovement) *dto.CashMovementResponse {
	return &dto.CashMovementResponse{
		ID:            m.ID,
		Kind:          string(m.Kind),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		LedgerEntryID: m.LedgerEntryID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
