// Package access define qué rol puede invocar cada operación del flujo.
package access

import (
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// Action operación protegida.
type Action string

const (
	SaleCreate      Action = "sale.create"
	SaleEdit        Action = "sale.edit"
	SaleFinalize    Action = "sale.finalize"
	SalePayment     Action = "sale.payment"
	PurchaseManage  Action = "purchase.manage"
	PurchaseReceive Action = "purchase.receive"
	PurchaseInvoice Action = "purchase.invoice"
	StockAdjust     Action = "stock.adjust"
	StockCount      Action = "stock.count"
	LedgerWrite     Action = "ledger.write"
	BudgetManage    Action = "budget.manage"
	CashManage      Action = "cash.manage"
	CatalogManage   Action = "catalog.manage"
)

// Actor quien invoca la operación.
type Actor struct {
	UserID string
	Role   string
}

// Policy verifica capacidades. Se inyecta en cada caso de uso.
type Policy interface {
	Authorize(actor Actor, action Action) error
}

// RolePolicy tabla acción -> roles permitidos.
type RolePolicy struct {
	allowed map[Action][]string
}

var _ Policy = (*RolePolicy)(nil)

// NewRolePolicy construye una política a partir de una tabla explícita.
func NewRolePolicy(allowed map[Action][]string) *RolePolicy {
	return &RolePolicy{allowed: allowed}
}

// DefaultPolicy caja: todos los roles venden; compras, stock y finanzas solo admin y manager.
func DefaultPolicy() *RolePolicy {
	staff := []string{entity.RoleAdmin, entity.RoleManager}
	everyone := []string{entity.RoleAdmin, entity.RoleManager, entity.RoleCashier}
	return NewRolePolicy(map[Action][]string{
		SaleCreate:      everyone,
		SaleEdit:        everyone,
		SaleFinalize:    everyone,
		SalePayment:     everyone,
		PurchaseManage:  staff,
		PurchaseReceive: staff,
		PurchaseInvoice: staff,
		StockAdjust:     staff,
		StockCount:      staff,
		LedgerWrite:     staff,
		BudgetManage:    staff,
		CashManage:      staff,
		CatalogManage:   staff,
	})
}

// Authorize devuelve ErrUnauthorized sin actor y ErrForbidden si el rol no tiene la capacidad.
func (p *RolePolicy) Authorize(actor Actor, action Action) error {
	if actor.UserID == "" || actor.Role == "" {
		return domain.ErrUnauthorized
	}
	for _, r := range p.allowed[action] {
		if r == actor.Role {
			return nil
		}
	}
	return domain.ErrForbidden
}
