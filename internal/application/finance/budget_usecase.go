package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// CreateBudget registra un presupuesto.
func (uc *FinanceUseCase) CreateBudget(ctx context.Context, actor access.Actor, in dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	if err := uc.policy.Authorize(actor, access.BudgetManage); err != nil {
		return nil, err
	}
	now := uc.now()
	from, err := parseDate("from", in.From, now.Location())
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", in.To, now.Location())
	if err != nil {
		return nil, err
	}
	cats := make([]entity.LedgerCategory, 0, len(in.Categories))
	for _, c := range in.Categories {
		cats = append(cats, entity.LedgerCategory(c))
	}
	budget, err := entity.NewBudget(in.Name, in.Planned, from, to, cats, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	var realized decimal.Decimal
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Budgets.Create(ctx, budget); err != nil {
			return err
		}
		realized, err = realizedFor(ctx, r, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBudgetResponse(budget, realized), nil
}

// GetBudget devuelve el presupuesto con su ejecución calculada al momento.
func (uc *FinanceUseCase) GetBudget(ctx context.Context, id string) (*dto.BudgetResponse, error) {
	var (
		budget   *entity.Budget
		realized decimal.Decimal
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		budget, err = r.Budgets.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if budget == nil {
			return domain.ErrNotFound
		}
		realized, err = realizedFor(ctx, r, budget)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toBudgetResponse(budget, realized), nil
}

// ListBudgets lista presupuestos con su ejecución.
func (uc *FinanceUseCase) ListBudgets(ctx context.Context) ([]dto.BudgetResponse, error) {
	var out []dto.BudgetResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		out = nil
		list, err := r.Budgets.List(ctx)
		if err != nil {
			return err
		}
		for _, b := range list {
			realized, err := realizedFor(ctx, r, b)
			if err != nil {
				return err
			}
			out = append(out, *toBudgetResponse(b, realized))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// realizedFor Σ montos de asientos en las categorías del presupuesto con fecha valor en el período.
func realizedFor(ctx context.Context, r repository.Repos, b *entity.Budget) (decimal.Decimal, error) {
	from, to := b.From, b.To
	return r.Ledger.Sum(ctx, repository.LedgerFilter{From: &from, To: &to, Categories: b.Categories})
}

func toBudgetResponse(b *entity.Budget, realized decimal.Decimal) *dto.BudgetResponse {
	progress := b.Progress(realized)
	cats := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		cats = append(cats, string(c))
	}
	return &dto.BudgetResponse{
		ID:          b.ID,
		Name:        b.Name,
		Planned:     b.Planned,
		From:        b.From,
		To:          b.To,
		Categories:  cats,
		Realized:    progress.Realized,
		Variance:    progress.Variance,
		PercentUsed: progress.PercentUsed,
	}
}
