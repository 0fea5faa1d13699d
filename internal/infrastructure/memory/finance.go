package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

type ledgerRepo struct{ s *Store }

func matches(e *entity.LedgerEntry, f repository.LedgerFilter) bool {
	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.From != nil && e.ValueDate.Before(entity.Day(*f.From)) {
		return false
	}
	if f.To != nil && e.ValueDate.After(entity.Day(*f.To)) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.Category) {
		return false
	}
	return true
}

func (r ledgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	for _, existing := range r.s.st.ledger {
		if sameRef(existing.SaleID, e.SaleID) || sameRef(existing.PurchaseID, e.PurchaseID) {
			return &domain.IntegrityError{Reason: "la venta o compra ya tiene un asiento en el libro"}
		}
	}
	c := *e
	r.s.st.ledger = append(r.s.st.ledger, &c)
	return nil
}

func sameRef(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// List fecha valor descendente.
func (r ledgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for _, e := range r.s.st.ledger {
		if matches(e, f) {
			c := *e
			list = append(list, &c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].ValueDate.Equal(list[j].ValueDate) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ValueDate.After(list[j].ValueDate)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r ledgerRepo) Sum(_ context.Context, f repository.LedgerFilter) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.s.st.ledger {
		if matches(e, f) {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (r ledgerRepo) ListBySale(_ context.Context, saleID string) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for _, e := range r.s.st.ledger {
		if e.SaleID != nil && *e.SaleID == saleID {
			c := *e
			list = append(list, &c)
		}
	}
	return list, nil
}

func (r ledgerRepo) ListByPurchase(_ context.Context, purchaseID string) ([]*entity.LedgerEntry, error) {
	var list []*entity.LedgerEntry
	for _, e := range r.s.st.ledger {
		if e.PurchaseID != nil && *e.PurchaseID == purchaseID {
			c := *e
			list = append(list, &c)
		}
	}
	return list, nil
}

type budgetRepo struct{ s *Store }

func cloneBudget(b *entity.Budget) *entity.Budget {
	c := *b
	c.Categories = slices.Clone(b.Categories)
	return &c
}

func (r budgetRepo) Create(_ context.Context, b *entity.Budget) error {
	if _, ok := r.s.st.budgets[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.budgets[b.ID] = cloneBudget(b)
	return nil
}

func (r budgetRepo) GetByID(_ context.Context, id string) (*entity.Budget, error) {
	b, ok := r.s.st.budgets[id]
	if !ok {
		return nil, nil
	}
	return cloneBudget(b), nil
}

func (r budgetRepo) List(_ context.Context) ([]*entity.Budget, error) {
	list := make([]*entity.Budget, 0, len(r.s.st.budgets))
	for _, b := range r.s.st.budgets {
		list = append(list, cloneBudget(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].From.After(list[j].From) })
	return list, nil
}

type cashRepo struct{ s *Store }

func (r cashRepo) Create(_ context.Context, m *entity.CashMovement) error {
	c := *m
	r.s.st.cash = append(r.s.st.cash, &c)
	return nil
}

func (r cashRepo) Last(_ context.Context) (*entity.CashMovement, error) {
	if len(r.s.st.cash) == 0 {
		return nil, nil
	}
	c := *r.s.st.cash[len(r.s.st.cash)-1]
	return &c, nil
}

func (r cashRepo) List(_ context.Context, limit, offset int) ([]*entity.CashMovement, error) {
	list := make([]*entity.CashMovement, 0, len(r.s.st.cash))
	for i := len(r.s.st.cash) - 1; i >= 0; i-- {
		c := *r.s.st.cash[i]
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}
