package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
)

// StockHandler ajustes manuales, tomas físicas y sugerencias de reposición.
type StockHandler struct {
	uc *inventory.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Delta positivo = entrada, negativo = salida. Falla con 409 si deja la cantidad bajo cero.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, source, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Adjust(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Reorder godoc
// @Summary      Productos a reponer
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReorderSuggestionDTO
// @Router       /api/stock/reorder [get]
func (h *StockHandler) Reorder(c *fiber.Ctx) error {
	out, err := h.uc.ReorderList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCount godoc
// @Summary      Abrir toma física
// @Description  Congela la cantidad de sistema de cada producto activo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockCountRequest  true  "name, description"
// @Success      201   {object}  dto.StockCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/counts [post]
func (h *StockHandler) CreateCount(c *fiber.Ctx) error {
	var in dto.CreateStockCountRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateCount(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCount godoc
// @Summary      Obtener toma física
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la toma"
// @Success      200  {object}  dto.StockCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/counts/{id} [get]
func (h *StockHandler) GetCount(c *fiber.Ctx) error {
	out, err := h.uc.GetCount(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetCounted godoc
// @Summary      Registrar cantidad contada
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID de la toma"
// @Param        itemId  path  string                  true  "ID del ítem"
// @Param        body    body  dto.SetCountedRequest   true  "counted_quantity"
// @Success      200     {object}  dto.StockCountResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/stock/counts/{id}/items/{itemId} [put]
func (h *StockHandler) SetCounted(c *fiber.Ctx) error {
	var in dto.SetCountedRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetCounted(c.UserContext(), actor(c), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CloseCount godoc
// @Summary      Cerrar toma física
// @Description  Asienta un ajuste por cada ítem contado con diferencia distinta de cero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la toma"
// @Success      200  {object}  dto.StockCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/counts/{id}/close [post]
func (h *StockHandler) CloseCount(c *fiber.Ctx) error {
	out, err := h.uc.CloseCount(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
