package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda360-api/internal/domain"
)

func TestAsConflict_DeadlockYSerializacion(t *testing.T) {
	for _, code := range []string{"40P01", "40001"} {
		err := asConflict(fmt.Errorf("update quantity: %w", &pgconn.PgError{Code: code}))
		assert.True(t, errors.Is(err, domain.ErrConflict), code)

		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr), "conserva el error original")
	}
}

func TestAsConflict_OtrosErroresSinCambios(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.Same(t, unique, asConflict(unique))

	stock := &domain.InsufficientStockError{ProductID: "p1"}
	assert.Equal(t, error(stock), asConflict(stock))
	assert.Nil(t, asConflict(nil))
}
