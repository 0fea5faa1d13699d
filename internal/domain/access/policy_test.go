package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

func TestDefaultPolicy(t *testing.T) {
	p := access.DefaultPolicy()
	cashier := access.Actor{UserID: "u1", Role: entity.RoleCashier}
	manager := access.Actor{UserID: "u2", Role: entity.RoleManager}

	cases := []struct {
		actor  access.Actor
		action access.Action
		want   error
	}{
		{cashier, access.SaleCreate, nil},
		{cashier, access.SaleFinalize, nil},
		{cashier, access.SalePayment, nil},
		{cashier, access.PurchaseReceive, domain.ErrForbidden},
		{cashier, access.PurchaseInvoice, domain.ErrForbidden},
		{cashier, access.StockAdjust, domain.ErrForbidden},
		{cashier, access.LedgerWrite, domain.ErrForbidden},
		{manager, access.PurchaseReceive, nil},
		{manager, access.BudgetManage, nil},
		{access.Actor{}, access.SaleCreate, domain.ErrUnauthorized},
	}
	for _, tc := range cases {
		err := p.Authorize(tc.actor, tc.action)
		if tc.want == nil {
			assert.NoError(t, err, "%s -> %s", tc.actor.Role, tc.action)
		} else {
			assert.ErrorIs(t, err, tc.want, "%s -> %s", tc.actor.Role, tc.action)
		}
	}
}

func TestRolePolicy_AccionDesconocida(t *testing.T) {
	p := access.NewRolePolicy(nil)
	err := p.Authorize(access.Actor{UserID: "u", Role: entity.RoleAdmin}, access.SaleCreate)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
