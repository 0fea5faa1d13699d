package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
	"github.com/jhoicas/tienda360-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	require.NoError(t, s.Run(context.Background(), func(r repository.Repos) error {
		return r.Products.Create(context.Background(), &entity.Product{ID: "p1", SKU: "A", Name: "A", Quantity: 5})
	}))
}

func quantity(t *testing.T, s *memory.Store) int {
	t.Helper()
	var q int
	require.NoError(t, s.Run(context.Background(), func(r repository.Repos) error {
		p, err := r.Products.GetByID(context.Background(), "p1")
		q = p.Quantity
		return err
	}))
	return q
}

func TestRun_ErrorRestauraEstado(t *testing.T) {
	s := memory.New()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Products.UpdateQuantity(ctx, "p1", 1))
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: "p1", Delta: -4}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, quantity(t, s))

	require.NoError(t, s.Run(ctx, func(r repository.Repos) error {
		movs, err := r.Movements.ListByProduct(ctx, "p1", 0, 0)
		assert.Empty(t, movs)
		return err
	}))
}

func TestRun_PanicRestauraEstado(t *testing.T) {
	s := memory.New()
	seed(t, s)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Run(ctx, func(r repository.Repos) error {
			_ = r.Products.UpdateQuantity(ctx, "p1", 0)
			panic("falla")
		})
	})
	assert.Equal(t, 5, quantity(t, s))
}

func TestRun_LecturasSonCopias(t *testing.T) {
	s := memory.New()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, "p1")
		p.Quantity = 99
		return err
	}))
	assert.Equal(t, 5, quantity(t, s))
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
