// Package memory almacén en proceso para desarrollo y pruebas.
// Toda operación pasa por TxRunner.Run, que serializa las unidades de trabajo con un mutex global
// y restaura la foto previa del estado si fn devuelve error.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Store estado completo en memoria. Nunca entrega punteros propios: lee y escribe copias.
type Store struct {
	mu sync.Mutex
	st state
}

type state struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	purchases map[string]*entity.Purchase
	suppliers map[string]*entity.Supplier
	ledger    []*entity.LedgerEntry
	budgets   map[string]*entity.Budget
	cash      []*entity.CashMovement
	counts    map[string]*entity.StockCount
	users     map[string]*entity.User
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: state{
		products:  map[string]*entity.Product{},
		sales:     map[string]*entity.Sale{},
		purchases: map[string]*entity.Purchase{},
		suppliers: map[string]*entity.Supplier{},
		budgets:   map[string]*entity.Budget{},
		counts:    map[string]*entity.StockCount{},
		users:     map[string]*entity.User{},
	}}
}

// snapshot copia superficial: los objetos guardados se reemplazan al escribir, nunca se mutan.
func (s state) snapshot() state {
	return state{
		products:  maps.Clone(s.products),
		movements: slices.Clone(s.movements),
		sales:     maps.Clone(s.sales),
		purchases: maps.Clone(s.purchases),
		suppliers: maps.Clone(s.suppliers),
		ledger:    slices.Clone(s.ledger),
		budgets:   maps.Clone(s.budgets),
		cash:      slices.Clone(s.cash),
		counts:    maps.Clone(s.counts),
		users:     maps.Clone(s.users),
	}
}

// Run ejecuta fn como unidad de trabajo: si devuelve error (o entra en pánico) el estado vuelve a la foto previa.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.st.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.st = saved
			panic(p)
		}
		if err != nil {
			s.st = saved
		}
	}()
	return fn(s.repos())
}

func (s *Store) repos() repository.Repos {
	return repository.Repos{
		Products:  productRepo{s},
		Movements: movementRepo{s},
		Sales:     saleRepo{s},
		Purchases: purchaseRepo{s},
		Suppliers: supplierRepo{s},
		Ledger:    ledgerRepo{s},
		Budgets:   budgetRepo{s},
		Cash:      cashRepo{s},
		Counts:    countRepo{s},
		Users:     userRepo{s},
		Locks:     locker{},
	}
}

// locker no hace nada: Run ya serializa todo.
type locker struct{}

func (locker) Lock(ctx context.Context, _ string) error { return ctx.Err() }

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
