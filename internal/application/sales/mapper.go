package sales

import (
	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.LineItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.LineItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			OriginalPrice:   it.OriginalPrice,
			Discount:        it.Discount(),
			DiscountPercent: it.DiscountPercent(),
			Subtotal:        it.Subtotal,
			Total:           it.Total,
		})
	}
	return &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountPaid:    s.AmountPaid,
		Outstanding:   s.Outstanding(),
		Subtotal:      s.Subtotal,
		Total:         s.Total,
		Note:          s.Note,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		FinalizedAt:   s.FinalizedAt,
		Items:         items,
	}
}
