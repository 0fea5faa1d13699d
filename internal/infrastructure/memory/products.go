package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

type productRepo struct{ s *Store }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.st.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.st.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.st.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.st.products {
		if p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	search := strings.ToLower(f.Search)
	var list []*entity.Product
	for _, p := range r.s.st.products {
		if f.OnlyActive && !p.Active {
			continue
		}
		if f.OnlyCritical && !p.IsCritical() {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		list = append(list, cloneProduct(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, f.Limit, f.Offset), nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneProduct(p)
	next.Quantity = cur.Quantity
	next.Cost = cur.Cost
	r.s.st.products[p.ID] = next
	return nil
}

func (r productRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	cur, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneProduct(cur)
	next.Quantity = quantity
	next.UpdatedAt = time.Now()
	r.s.st.products[id] = next
	return nil
}

func (r productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	cur, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneProduct(cur)
	next.Cost = cost
	next.UpdatedAt = time.Now()
	r.s.st.products[id] = next
	return nil
}

type movementRepo struct{ s *Store }

func (r movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	c := *m
	r.s.st.movements = append(r.s.st.movements, &c)
	return nil
}

// ListByProduct más recientes primero.
func (r movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		if m := r.s.st.movements[i]; m.ProductID == productID {
			c := *m
			list = append(list, &c)
		}
	}
	return page(list, limit, offset), nil
}

func (r movementRepo) ListByReference(_ context.Context, reference string) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.s.st.movements {
		if m.Reference == reference {
			c := *m
			list = append(list, &c)
		}
	}
	return list, nil
}
