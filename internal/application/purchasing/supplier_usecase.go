package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/domain"
	"github.com/jhoicas/tienda360-api/internal/domain/access"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
	"github.com/jhoicas/tienda360-api/internal/domain/repository"
)

// CreateSupplier registra un proveedor.
func (uc *PurchaseUseCase) CreateSupplier(ctx context.Context, actor access.Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := uc.policy.Authorize(actor, access.PurchaseManage); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.Invalid("name", "requerido")
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Contact:   in.Contact,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.tx.Run(ctx, func(r repository.Repos) error {
		return r.Suppliers.Create(ctx, s)
	}); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// ListSuppliers lista proveedores.
func (uc *PurchaseUseCase) ListSuppliers(ctx context.Context, limit, offset int) ([]dto.SupplierResponse, error) {
	var list []*entity.Supplier
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Suppliers.List(ctx, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
