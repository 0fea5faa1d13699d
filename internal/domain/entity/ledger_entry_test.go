package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

func TestNewLedgerEntry_CategoriaForzadaPorReferencia(t *testing.T) {
	saleID := "s1"
	e, err := entity.NewLedgerEntry(entity.Inflow, decimal.NewFromInt(25), entity.CategoryOther, "", &saleID, nil, "u1", time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.CategorySale, e.Category)
	assert.Equal(t, entity.Day(now), e.ValueDate, "fecha valor por defecto: hoy")
}

func TestNewLedgerEntry_Validaciones(t *testing.T) {
	_, err := entity.NewLedgerEntry(entity.Outflow, decimal.Zero, entity.CategoryRent, "", nil, nil, "u1", now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewLedgerEntry("SIDEWAYS", decimal.NewFromInt(1), entity.CategoryRent, "", nil, nil, "u1", now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewLedgerEntry(entity.Outflow, decimal.NewFromInt(1), "lottery", "", nil, nil, "u1", now, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBudget_Progress(t *testing.T) {
	b, err := entity.NewBudget("Arriendo", decimal.NewFromInt(200), now, now.AddDate(0, 1, 0),
		[]entity.LedgerCategory{entity.CategoryRent}, "u1", now)
	require.NoError(t, err)

	p := b.Progress(decimal.Zero)
	assert.True(t, p.Realized.IsZero())
	assert.True(t, decimal.NewFromInt(200).Equal(p.Variance))

	p = b.Progress(decimal.NewFromInt(50))
	assert.True(t, decimal.NewFromInt(150).Equal(p.Variance))
	assert.True(t, decimal.NewFromInt(25).Equal(p.PercentUsed))
}

func TestCashKind_Effect(t *testing.T) {
	before := decimal.NewFromInt(100)
	assert.True(t, decimal.NewFromInt(40).Equal(entity.CashOpen.Effect(before, decimal.NewFromInt(40))))
	assert.True(t, decimal.NewFromInt(130).Equal(entity.CashTopUp.Effect(before, decimal.NewFromInt(30))))
	assert.True(t, decimal.NewFromInt(70).Equal(entity.CashWithdrawal.Effect(before, decimal.NewFromInt(30))))
}

func TestStockCount_CerrarDosVeces(t *testing.T) {
	inactive := product("x", 1, 9)
	inactive.Active = false
	c, err := entity.NewStockCount("Marzo", "", []*entity.Product{product("a", 1, 4), inactive}, "u1", now)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].SystemQuantity)

	require.NoError(t, c.SetCounted(c.Items[0].ID, 6))
	assert.Equal(t, 2, c.Items[0].Difference())

	require.NoError(t, c.CanClose())
	c.MarkClosed(now)
	assert.ErrorIs(t, c.CanClose(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, c.SetCounted(c.Items[0].ID, 1), domain.ErrInvalidTransition)
}
