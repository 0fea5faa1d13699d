package memory

import (
	"context"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

type countRepo struct{ s *Store }

func cloneCount(c *entity.StockCount) *entity.StockCount {
	out := *c
	out.Items = make([]*entity.StockCountItem, len(c.Items))
	for i, it := range c.Items {
		ci := *it
		if it.CountedQuantity != nil {
			q := *it.CountedQuantity
			ci.CountedQuantity = &q
		}
		out.Items[i] = &ci
	}
	return &out
}

func (r countRepo) Create(_ context.Context, c *entity.StockCount) error {
	if _, ok := r.s.st.counts[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.counts[c.ID] = cloneCount(c)
	return nil
}

func (r countRepo) GetByID(_ context.Context, id string) (*entity.StockCount, error) {
	c, ok := r.s.st.counts[id]
	if !ok {
		return nil, nil
	}
	return cloneCount(c), nil
}

func (r countRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockCount, error) {
	return r.GetByID(ctx, id)
}

func (r countRepo) Save(_ context.Context, c *entity.StockCount) error {
	if _, ok := r.s.st.counts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.counts[c.ID] = cloneCount(c)
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	r.s.st.users[u.ID] = &c
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.st.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}
