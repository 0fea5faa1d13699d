// Package catalog CRUD de productos. Cantidad y costo no se editan aquí:
// la cantidad cambia solo por asientos del libro de stock y el costo al recibir compras.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// ProductUseCase casos de uso de catálogo.
type ProductUseCase struct {
	tx     repository.TxRunner
	ledger *inventory.StockLedger
	policy access.Policy
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx repository.TxRunner, ledger *inventory.StockLedger, policy access.Policy) *ProductUseCase {
	return &ProductUseCase{tx: tx, ledger: ledger, policy: policy}
}

// Create crea un producto con cantidad 0; InitialQuantity se asienta como entrada manual
// en la misma transacción para que toda existencia tenga su movimiento.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.policy.Authorize(actor, access.CatalogManage); err != nil {
		return nil, err
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.Invalid("sku", "requerido")
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	if err := entity.CheckMoney("price", in.Price); err != nil {
		return nil, err
	}
	cost := decimal.Zero
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.Invalid("cost", "no puede ser negativo")
		}
		if err := entity.CheckMoney("cost", *in.Cost); err != nil {
			return nil, err
		}
		cost = *in.Cost
	}
	if in.ReorderThreshold < 0 || in.InitialQuantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		SKU:              sku,
		Name:             in.Name,
		Description:      in.Description,
		Category:         in.Category,
		Price:            in.Price,
		Cost:             cost,
		ReorderThreshold: in.ReorderThreshold,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Products.GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		p, err := uc.ledger.Post(ctx, r, inventory.PostInput{
			ProductID: product.ID,
			Delta:     in.InitialQuantity,
			Source:    entity.SourceManual,
			Actor:     actor.UserID,
			Reason:    "Existencia inicial",
		})
		if err != nil {
			return err
		}
		product.Quantity = p.Product.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar Cost ni Quantity.
func (uc *ProductUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.policy.Authorize(actor, access.CatalogManage); err != nil {
		return nil, err
	}
	var product *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		product, err = r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			if *in.Name == "" {
				return domain.Invalid("name", "requerido")
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Category != nil {
			product.Category = *in.Category
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return domain.Invalid("price", "no puede ser negativo")
			}
			if err := entity.CheckMoney("price", *in.Price); err != nil {
				return err
			}
			product.Price = *in.Price
		}
		if in.ReorderThreshold != nil {
			if *in.ReorderThreshold < 0 {
				return domain.Invalid("reorder_threshold", "no puede ser negativo")
			}
			product.ReorderThreshold = *in.ReorderThreshold
		}
		if in.Active != nil {
			product.Active = *in.Active
		}
		product.UpdatedAt = time.Now()
		return r.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	var list []*entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Products.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Description:      p.Description,
		Category:         p.Category,
		Price:            p.Price,
		Cost:             p.Cost,
		Quantity:         p.Quantity,
		ReorderThreshold: p.ReorderThreshold,
		Critical:         p.IsCritical(),
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
