package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

func cloneItems(items []*entity.LineItem) []*entity.LineItem {
	if items == nil {
		return nil
	}
	out := make([]*entity.LineItem, len(items))
	for i, it := range items {
		c := *it
		if it.ReceivedQuantity != nil {
			q := *it.ReceivedQuantity
			c.ReceivedQuantity = &q
		}
		out[i] = &c
	}
	return out
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = cloneItems(s.Items)
	return &c
}

func clonePurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	c.Items = cloneItems(p.Items)
	return &c
}

// lastNumber mayor número con el prefijo: primero por longitud, luego lexicográfico.
func lastNumber(numbers []string, prefix string) string {
	last := ""
	for _, n := range numbers {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if len(n) > len(last) || (len(n) == len(last) && n > last) {
			last = n
		}
	}
	return last
}

type saleRepo struct{ s *Store }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	for _, existing := range r.s.st.sales {
		if existing.Number == sale.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.st.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := r.s.st.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) Save(_ context.Context, sale *entity.Sale) error {
	if _, ok := r.s.st.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r saleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.sales, id)
	return nil
}

func (r saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	list := make([]*entity.Sale, 0, len(r.s.st.sales))
	for _, sale := range r.s.st.sales {
		list = append(list, cloneSale(sale))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Number > list[j].Number
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, limit, offset), nil
}

func (r saleRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	numbers := make([]string, 0, len(r.s.st.sales))
	for _, sale := range r.s.st.sales {
		numbers = append(numbers, sale.Number)
	}
	return lastNumber(numbers, prefix), nil
}

type purchaseRepo struct{ s *Store }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	for _, existing := range r.s.st.purchases {
		if existing.Number == p.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.st.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	p, ok := r.s.st.purchases[id]
	if !ok {
		return nil, nil
	}
	return clonePurchase(p), nil
}

func (r purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	return r.GetByID(ctx, id)
}

func (r purchaseRepo) Save(_ context.Context, p *entity.Purchase) error {
	if _, ok := r.s.st.purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r purchaseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.st.purchases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.purchases, id)
	return nil
}

func (r purchaseRepo) List(_ context.Context, limit, offset int) ([]*entity.Purchase, error) {
	list := make([]*entity.Purchase, 0, len(r.s.st.purchases))
	for _, p := range r.s.st.purchases {
		list = append(list, clonePurchase(p))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Number > list[j].Number
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, limit, offset), nil
}

func (r purchaseRepo) LastNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	numbers := make([]string, 0, len(r.s.st.purchases))
	for _, p := range r.s.st.purchases {
		numbers = append(numbers, p.Number)
	}
	return lastNumber(numbers, prefix), nil
}

type supplierRepo struct{ s *Store }

func (r supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	if _, ok := r.s.st.suppliers[sup.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *sup
	r.s.st.suppliers[sup.ID] = &c
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sup, ok := r.s.st.suppliers[id]
	if !ok {
		return nil, nil
	}
	c := *sup
	return &c, nil
}

func (r supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	list := make([]*entity.Supplier, 0, len(r.s.st.suppliers))
	for _, sup := range r.s.st.suppliers {
		c := *sup
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}
