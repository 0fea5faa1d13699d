package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda360-api/internal/application/dto"
	"github.com/jhoicas/tienda360-api/internal/application/finance"
)

// FinanceHandler libro de caja, presupuestos y caja física.
type FinanceHandler struct {
	uc *finance.FinanceUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.FinanceUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc}
}

// CreateEntry godoc
// @Summary      Registrar asiento manual
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLedgerEntryRequest  true  "direction, amount, category"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/finance/entries [post]
func (h *FinanceHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.CreateLedgerEntryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordEntry(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEntries godoc
// @Summary      Listar asientos
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        direction  query  string  false  "INFLOW | OUTFLOW"
// @Param        category   query  string  false  "Categoría"
// @Param        from       query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to         query  string  false  "Hasta (AAAA-MM-DD)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {array}   dto.LedgerEntryResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/finance/entries [get]
func (h *FinanceHandler) ListEntries(c *fiber.Ctx) error {
	var q dto.LedgerQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	q.Limit, q.Offset = pageParams(c)
	out, err := h.uc.ListEntries(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen financiero
// @Description  Saldo acumulado y totales del día y del mes en curso.
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LedgerSummaryResponse
// @Router       /api/finance/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateBudget godoc
// @Summary      Crear presupuesto
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBudgetRequest  true  "name, planned, from, to, categories"
// @Success      201   {object}  dto.BudgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/budgets [post]
func (h *FinanceHandler) CreateBudget(c *fiber.Ctx) error {
	var in dto.CreateBudgetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateBudget(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetBudget godoc
// @Summary      Obtener presupuesto con su ejecución
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del presupuesto"
// @Success      200  {object}  dto.BudgetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/finance/budgets/{id} [get]
func (h *FinanceHandler) GetBudget(c *fiber.Ctx) error {
	out, err := h.uc.GetBudget(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListBudgets godoc
// @Summary      Listar presupuestos
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BudgetResponse
// @Router       /api/finance/budgets [get]
func (h *FinanceHandler) ListBudgets(c *fiber.Ctx) error {
	out, err := h.uc.ListBudgets(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordCash godoc
// @Summary      Movimiento de caja
// @Description  Apertura, cierre, fondeo o retiro. Retiros y cierres con monto asientan un egreso.
// @Tags         finance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashMovementRequest  true  "kind, amount, reason, category"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/finance/cash [post]
func (h *FinanceHandler) RecordCash(c *fiber.Ctx) error {
	var in dto.CashMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordCash(c.UserContext(), actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CashBalance godoc
// @Summary      Saldo de caja
// @Tags         finance
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashBalanceResponse
// @Router       /api/finance/cash/balance [get]
func (h *FinanceHandler) CashBalance(c *fiber.Ctx) error {
	out, err := h.uc.CashBalance(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
